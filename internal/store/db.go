package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the GORM DB handle and exposes repository helpers.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed database at the provided path.
func Open(path string, silent bool) (*Database, error) {
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Analysis{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
		logrus.WithError(err).Warn("set synchronous pragma")
	}
	if err := applyIndexes(db); err != nil {
		return nil, fmt.Errorf("apply indexes: %w", err)
	}
	return &Database{gorm: db}, nil
}

// GORM exposes the raw gorm.DB handle.
func (d *Database) GORM() *gorm.DB {
	return d.gorm
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveAnalysis inserts a history record.
func (d *Database) SaveAnalysis(a *Analysis) error {
	if d == nil {
		return errors.New("database is nil")
	}
	if a == nil {
		return errors.New("analysis is nil")
	}
	a.Kind = strings.ToLower(strings.TrimSpace(a.Kind))
	a.Status = strings.ToLower(strings.TrimSpace(a.Status))
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Create(a).Error
}

// GetAnalysis retrieves a record by ID.
func (d *Database) GetAnalysis(id uint) (*Analysis, error) {
	var analysis Analysis
	if err := d.gorm.First(&analysis, id).Error; err != nil {
		return nil, err
	}
	return &analysis, nil
}

// CountAnalyses returns the number of stored records.
func (d *Database) CountAnalyses() (int64, error) {
	var count int64
	if err := d.gorm.Model(&Analysis{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AnalysisQuery encapsulates filters and pagination for listing history rows.
type AnalysisQuery struct {
	Query  string
	Kind   string
	Status string
	Sort   string
	Offset int
	Limit  int
}

// ListAnalyses returns paginated history records applying optional filters.
func (d *Database) ListAnalyses(opts AnalysisQuery) ([]Analysis, int64, error) {
	var total int64
	base := d.gorm.Model(&Analysis{})
	if q := strings.TrimSpace(opts.Query); q != "" {
		like := fmt.Sprintf("%%%s%%", q)
		base = base.Where("filename LIKE ? OR preview LIKE ? OR digest LIKE ?", like, like, like)
	}
	if kind := strings.TrimSpace(opts.Kind); kind != "" {
		base = base.Where("kind = ?", strings.ToLower(kind))
	}
	if status := strings.TrimSpace(opts.Status); status != "" {
		base = base.Where("status = ?", strings.ToLower(status))
	}

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	queryBuilder := base.Order(orderForSort(opts.Sort)).Offset(opts.Offset)
	if opts.Limit > 0 {
		queryBuilder = queryBuilder.Limit(opts.Limit)
	}

	var rows []Analysis
	if err := queryBuilder.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// SummarizeAnalyses groups the history by kind and status.
func (d *Database) SummarizeAnalyses() ([]StatusCount, error) {
	var rows []StatusCount
	err := d.gorm.Model(&Analysis{}).
		Select("kind, status, COUNT(*) AS total").
		Group("kind, status").
		Order("kind ASC, status ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("summarize analyses: %w", err)
	}
	return rows, nil
}

// ClearAnalyses removes every history record.
func (d *Database) ClearAnalyses() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Analysis{}).Error
}

func orderForSort(sort string) string {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case "confidence_desc":
		return "analyses.confidence DESC, analyses.id DESC"
	case "confidence_asc":
		return "analyses.confidence ASC, analyses.id DESC"
	case "created_asc":
		return "analyses.created_at ASC, analyses.id ASC"
	case "filename_asc":
		return "analyses.filename ASC, analyses.id DESC"
	case "filename_desc":
		return "analyses.filename DESC, analyses.id DESC"
	default:
		return "analyses.id DESC"
	}
}

func applyIndexes(db *gorm.DB) error {
	stmts := []string{
		"CREATE INDEX IF NOT EXISTS idx_analyses_kind_status ON analyses(kind, status)",
		"CREATE INDEX IF NOT EXISTS idx_analyses_confidence ON analyses(confidence)",
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
