package vm

// Memory is a flat, byte-addressable store of MemSize bytes. Unlike the
// teacher's segmented MemorySegment model (permission bits per region),
// RV64I's architectural contract (spec.md §3) makes no such distinction:
// every access through this API is simply bounds-checked against
// [0, MemSize), little-endian, alignment-tolerant.
type Memory struct {
	bytes []byte

	AccessCount uint64
	ReadCount   uint64
	WriteCount  uint64
}

// NewMemory creates a zeroed Memory of MemSize bytes.
func NewMemory() *Memory {
	return &Memory{bytes: make([]byte, MemSize)}
}

// Reset zeroes all memory contents.
func (m *Memory) Reset() {
	for i := range m.bytes {
		m.bytes[i] = 0
	}
	m.AccessCount, m.ReadCount, m.WriteCount = 0, 0, 0
}

func (m *Memory) checkBounds(addr uint64, size int) error {
	if addr >= MemSize || addr+uint64(size) > MemSize {
		return &MemoryFault{Address: addr, Size: size}
	}
	return nil
}

// Read8 reads one byte at addr.
func (m *Memory) Read8(addr uint64) (uint8, error) {
	if err := m.checkBounds(addr, 1); err != nil {
		return 0, err
	}
	m.AccessCount++
	m.ReadCount++
	return m.bytes[addr], nil
}

// Write8 writes one byte at addr.
func (m *Memory) Write8(addr uint64, v uint8) error {
	if err := m.checkBounds(addr, 1); err != nil {
		return err
	}
	m.AccessCount++
	m.WriteCount++
	m.bytes[addr] = v
	return nil
}

// Read16 reads a little-endian 16-bit halfword at addr.
func (m *Memory) Read16(addr uint64) (uint16, error) {
	if err := m.checkBounds(addr, 2); err != nil {
		return 0, err
	}
	m.AccessCount++
	m.ReadCount++
	return uint16(m.bytes[addr]) | uint16(m.bytes[addr+1])<<8, nil
}

// Write16 writes a little-endian 16-bit halfword at addr.
func (m *Memory) Write16(addr uint64, v uint16) error {
	if err := m.checkBounds(addr, 2); err != nil {
		return err
	}
	m.AccessCount++
	m.WriteCount++
	m.bytes[addr] = byte(v)
	m.bytes[addr+1] = byte(v >> 8)
	return nil
}

// Read32 reads a little-endian 32-bit word at addr.
func (m *Memory) Read32(addr uint64) (uint32, error) {
	if err := m.checkBounds(addr, 4); err != nil {
		return 0, err
	}
	m.AccessCount++
	m.ReadCount++
	var v uint32
	for i := 0; i < 4; i++ {
		v |= uint32(m.bytes[addr+uint64(i)]) << (8 * i)
	}
	return v, nil
}

// Write32 writes a little-endian 32-bit word at addr.
func (m *Memory) Write32(addr uint64, v uint32) error {
	if err := m.checkBounds(addr, 4); err != nil {
		return err
	}
	m.AccessCount++
	m.WriteCount++
	for i := 0; i < 4; i++ {
		m.bytes[addr+uint64(i)] = byte(v >> (8 * i))
	}
	return nil
}

// Read64 reads a little-endian 64-bit doubleword at addr.
func (m *Memory) Read64(addr uint64) (uint64, error) {
	if err := m.checkBounds(addr, 8); err != nil {
		return 0, err
	}
	m.AccessCount++
	m.ReadCount++
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(m.bytes[addr+uint64(i)]) << (8 * i)
	}
	return v, nil
}

// Write64 writes a little-endian 64-bit doubleword at addr.
func (m *Memory) Write64(addr uint64, v uint64) error {
	if err := m.checkBounds(addr, 8); err != nil {
		return err
	}
	m.AccessCount++
	m.WriteCount++
	for i := 0; i < 8; i++ {
		m.bytes[addr+uint64(i)] = byte(v >> (8 * i))
	}
	return nil
}

// ReadBytes reads count raw bytes starting at addr, for the debugger's "mem" command.
func (m *Memory) ReadBytes(addr uint64, count int) ([]byte, error) {
	if err := m.checkBounds(addr, count); err != nil {
		return nil, err
	}
	out := make([]byte, count)
	copy(out, m.bytes[addr:addr+uint64(count)])
	return out, nil
}

// LoadBytes copies data into memory starting at addr, for bulk seeding of an
// image (the loader itself writes word by word with Write8..Write64).
// Bypasses read/write counters since it is not an architectural access.
func (m *Memory) LoadBytes(addr uint64, data []byte) error {
	if err := m.checkBounds(addr, len(data)); err != nil {
		return err
	}
	copy(m.bytes[addr:], data)
	return nil
}
