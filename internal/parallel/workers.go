package parallel

import (
	"runtime"
)

// TaskType represents the type of processing workload
type TaskType string

const (
	// CPUBound tasks are limited by CPU processing power
	CPUBound TaskType = "cpu-bound"
	// IOBound tasks are limited by I/O operations (network, disk)
	IOBound TaskType = "io-bound"
	// FileProcessing tasks read a file and scan its text
	FileProcessing TaskType = "file-processing"
)

// maxIOWorkers caps I/O bound pools; more open files than this stop helping.
const maxIOWorkers = 32

// CalculateWorkers determines the number of workers for numItems of a workload,
// never more than numItems and at least one when there is work.
func CalculateWorkers(numItems int, taskType TaskType) int {
	if numItems <= 0 {
		return 0
	}

	cpuCores := runtime.NumCPU()

	var workers int
	switch taskType {
	case CPUBound:
		workers = cpuCores
	case IOBound:
		workers = min(cpuCores*4, maxIOWorkers)
	default:
		workers = cpuCores * 2
	}

	return max(1, min(workers, numItems))
}
