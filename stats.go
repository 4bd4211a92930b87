package honeybadger

import (
	"github.com/prometheus/procfs"
)

// ReadStats returns the memory and load readings of the host. Readings that
// are unavailable on the platform are left nil.
func ReadStats() Stats {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return Stats{}
	}
	return Stats{
		Mem:  readMemory(fs),
		Load: readLoad(fs),
	}
}

func readMemory(fs procfs.FS) *MemoryInfo {
	meminfo, err := fs.Meminfo()
	if err != nil {
		return nil
	}
	mem := &MemoryInfo{
		Total:   kilobytesToMegabytes(meminfo.MemTotal),
		Free:    kilobytesToMegabytes(meminfo.MemFree),
		Buffers: kilobytesToMegabytes(meminfo.Buffers),
		Cached:  kilobytesToMegabytes(meminfo.Cached),
	}
	if mem.Free != nil && mem.Buffers != nil && mem.Cached != nil {
		freeTotal := *mem.Free + *mem.Buffers + *mem.Cached
		mem.FreeTotal = &freeTotal
	}
	return mem
}

func readLoad(fs procfs.FS) *LoadInfo {
	load, err := fs.LoadAvg()
	if err != nil {
		return nil
	}
	return &LoadInfo{
		One:     ptrTo(load.Load1),
		Five:    ptrTo(load.Load5),
		Fifteen: ptrTo(load.Load15),
	}
}

func kilobytesToMegabytes(kb *uint64) *float64 {
	if kb == nil {
		return nil
	}
	return ptrTo(float64(*kb) / 1024.0)
}
