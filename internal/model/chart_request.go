package model

import "fmt"

// RequestKind identifies which chart the controller renders next.
type RequestKind int

const (
	// RequestDefault is the base chart with no plotted data.
	RequestDefault RequestKind = iota
	// RequestFromFile plots the points of an uploaded data file.
	RequestFromFile
	// RequestManualPoint plots a single user-entered point.
	RequestManualPoint
	// RequestCleared follows a successful clear-data call.
	RequestCleared
)

// String returns the kind name used in logs and status lines.
func (k RequestKind) String() string {
	switch k {
	case RequestDefault:
		return "default"
	case RequestFromFile:
		return "file"
	case RequestManualPoint:
		return "manual-point"
	case RequestCleared:
		return "cleared"
	default:
		return fmt.Sprintf("RequestKind(%d)", int(k))
	}
}

// ChartRequest is the currently selected chart source. Only the field that
// matches Kind is meaningful.
type ChartRequest struct {
	File  string
	Point ManualPoint
	Kind  RequestKind
}

// DefaultRequest selects the default chart.
func DefaultRequest() ChartRequest {
	return ChartRequest{Kind: RequestDefault}
}

// FileRequest selects a chart generated from the file at path.
func FileRequest(path string) ChartRequest {
	return ChartRequest{Kind: RequestFromFile, File: path}
}

// PointRequest selects a chart with a single manual point.
func PointRequest(p ManualPoint) ChartRequest {
	return ChartRequest{Kind: RequestManualPoint, Point: p}
}

// ClearedRequest selects the state after stored data was cleared.
func ClearedRequest() ChartRequest {
	return ChartRequest{Kind: RequestCleared}
}

// ManualPoint is a dry-bulb temperature (°C) and relative humidity (%) pair.
type ManualPoint struct {
	Temperature float64
	Humidity    float64
}
