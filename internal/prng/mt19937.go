package prng

// MT19937 is the 32-bit Mersenne Twister. Seeding goes through init_by_array and
// Float64 draws 53-bit doubles, so a generator seeded with an integer key produces the
// same stream as the widely deployed reference implementations that seed that way.
type MT19937 struct {
	state [mtN]uint32
	index int
}

const (
	mtN         = 624
	mtM         = 397
	matrixA     = 0x9908b0df
	upperMask   = 0x80000000
	lowerMask   = 0x7fffffff
	float53Mult = 1.0 / 9007199254740992.0
)

// NewMT19937 returns a generator seeded with a single 32-bit key word.
func NewMT19937(seed uint32) *MT19937 {
	return NewMT19937FromKey([]uint32{seed})
}

// NewMT19937FromKey seeds the generator with init_by_array. An empty key behaves like
// a single zero word.
func NewMT19937FromKey(key []uint32) *MT19937 {
	if len(key) == 0 {
		key = []uint32{0}
	}
	m := &MT19937{}
	m.initGenrand(19650218)

	i, j := 1, 0
	k := mtN
	if len(key) > k {
		k = len(key)
	}
	for ; k > 0; k-- {
		prev := m.state[i-1] ^ (m.state[i-1] >> 30)
		m.state[i] = (m.state[i] ^ (prev * 1664525)) + key[j] + uint32(j)
		i++
		j++
		if i >= mtN {
			m.state[0] = m.state[mtN-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}
	for k = mtN - 1; k > 0; k-- {
		prev := m.state[i-1] ^ (m.state[i-1] >> 30)
		m.state[i] = (m.state[i] ^ (prev * 1566083941)) - uint32(i)
		i++
		if i >= mtN {
			m.state[0] = m.state[mtN-1]
			i = 1
		}
	}
	m.state[0] = 0x80000000
	m.index = mtN
	return m
}

func (m *MT19937) initGenrand(seed uint32) {
	m.state[0] = seed
	for i := 1; i < mtN; i++ {
		prev := m.state[i-1] ^ (m.state[i-1] >> 30)
		m.state[i] = 1812433253*prev + uint32(i)
	}
	m.index = mtN
}

func (m *MT19937) twist() {
	for i := 0; i < mtN; i++ {
		y := (m.state[i] & upperMask) | (m.state[(i+1)%mtN] & lowerMask)
		next := m.state[(i+mtM)%mtN] ^ (y >> 1)
		if y&1 != 0 {
			next ^= matrixA
		}
		m.state[i] = next
	}
	m.index = 0
}

// Uint32 returns the next tempered 32-bit output.
func (m *MT19937) Uint32() uint32 {
	if m.index >= mtN {
		m.twist()
	}
	y := m.state[m.index]
	m.index++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// Float64 returns a uniform value in [0, 1) with 53 bits of precision.
func (m *MT19937) Float64() float64 {
	a := m.Uint32() >> 5
	b := m.Uint32() >> 6
	return (float64(a)*67108864.0 + float64(b)) * float53Mult
}
