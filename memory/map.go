package memory

import (
	"log"
)

// Region decodes a range of the address space to a device. The device sees
// addresses relative to Start.
type Region struct {
	Name   string
	Start  uint32
	Size   uint32
	Device Bus
}

// Contains reports whether addr decodes to the region.
func (rg *Region) Contains(addr uint32) bool {
	return addr >= rg.Start && addr-rg.Start < rg.Size
}

// Map routes bus accesses to attached regions. Unmapped reads return the
// last value seen on the data bus, unmapped writes are dropped.
type Map struct {
	Verbose bool

	Regions []Region

	openBus uint8
}

var _ Bus = (*Map)(nil)

// Attach decodes size bytes starting at start to dev.
func (mm *Map) Attach(name string, start uint32, size uint32, dev Bus) (err error) {
	if size == 0 {
		err = ErrRegionEmpty
		return
	}

	if start > ADDRESS_MASK || size > ADDRESS_MASK+1-start {
		err = ErrRegionRange
		return
	}

	for _, rg := range mm.Regions {
		if start < rg.Start+rg.Size && rg.Start < start+size {
			err = ErrRegionOverlap{Name: name, Existing: rg.Name}
			return
		}
	}

	mm.Regions = append(mm.Regions, Region{
		Name:   name,
		Start:  start,
		Size:   size,
		Device: dev,
	})

	if mm.Verbose {
		log.Printf("memory: %v at $%06X-$%06X", name, start, start+size-1)
	}

	return
}

// Lookup returns the region decoding addr.
func (mm *Map) Lookup(addr uint32) (rg *Region, err error) {
	addr &= ADDRESS_MASK
	for n := range mm.Regions {
		if mm.Regions[n].Contains(addr) {
			rg = &mm.Regions[n]
			return
		}
	}

	err = ErrUnmapped(addr)
	return
}

// Read a byte.
func (mm *Map) Read(addr uint32) uint8 {
	rg, err := mm.Lookup(addr)
	if err != nil {
		if mm.Verbose {
			log.Printf("memory: read %v", err)
		}
		return mm.openBus
	}

	mm.openBus = rg.Device.Read((addr & ADDRESS_MASK) - rg.Start)
	return mm.openBus
}

// Write a byte.
func (mm *Map) Write(addr uint32, value uint8) {
	mm.openBus = value

	rg, err := mm.Lookup(addr)
	if err != nil {
		if mm.Verbose {
			log.Printf("memory: write %v", err)
		}
		return
	}

	rg.Device.Write((addr&ADDRESS_MASK)-rg.Start, value)
}
