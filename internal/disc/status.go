package disc

import (
	"errors"
	"fmt"

	"cdrip/internal/services"
)

// ErrNotScanned is returned by geometry accessors when no successful scan
// backs the scanner. The wrapping error names the accessor.
var ErrNotScanned = errors.New("disc not scanned")

// StatusCode enumerates the outcomes of a TOC scan.
type StatusCode string

const (
	StatusOK              StatusCode = "ok"
	StatusNotInstalled    StatusCode = "notInstalled"
	StatusUnknownDrive    StatusCode = "unknownDrive"
	StatusWrongParameters StatusCode = "wrongParameters"
	StatusNoDiscInDrive   StatusCode = "noDiscInDrive"
	StatusError           StatusCode = "error"
)

// ScanStatus is the result of one scan attempt. Detail carries the tool name
// for notInstalled and wrongParameters, the device for unknownDrive and
// noDiscInDrive, and the raw failure text for error.
type ScanStatus struct {
	Code   StatusCode `json:"code"`
	Detail string     `json:"detail,omitempty"`
}

func statusOK() ScanStatus { return ScanStatus{Code: StatusOK} }

func statusNotInstalled(tool string) ScanStatus {
	return ScanStatus{Code: StatusNotInstalled, Detail: tool}
}

func statusUnknownDrive(device string) ScanStatus {
	return ScanStatus{Code: StatusUnknownDrive, Detail: device}
}

func statusWrongParameters(tool string) ScanStatus {
	return ScanStatus{Code: StatusWrongParameters, Detail: tool}
}

func statusNoDisc(device string) ScanStatus {
	return ScanStatus{Code: StatusNoDiscInDrive, Detail: device}
}

func statusError(detail string) ScanStatus {
	return ScanStatus{Code: StatusError, Detail: detail}
}

// OK reports whether the scan produced usable geometry.
func (s ScanStatus) OK() bool {
	return s.Code == StatusOK
}

// Scanned reports whether a scan attempt has completed.
func (s ScanStatus) Scanned() bool {
	return s.Code != ""
}

func (s ScanStatus) String() string {
	switch {
	case s.Code == "":
		return "notScanned"
	case s.Detail == "":
		return string(s.Code)
	default:
		return fmt.Sprintf("%s(%s)", s.Code, s.Detail)
	}
}

// Message renders the status as an operator-facing sentence.
func (s ScanStatus) Message() string {
	switch s.Code {
	case StatusOK:
		return "disc scanned"
	case StatusNotInstalled:
		return fmt.Sprintf("%s is required, but not detected on your system", s.Detail)
	case StatusUnknownDrive:
		return fmt.Sprintf("the device %s doesn't exist on your system", s.Detail)
	case StatusWrongParameters:
		return fmt.Sprintf("%s does not recognize the parameters used", s.Detail)
	case StatusNoDiscInDrive:
		return fmt.Sprintf("there is no audio disc ready in drive %s", s.Detail)
	case StatusError:
		return fmt.Sprintf("scan failed: %s", s.Detail)
	default:
		return "disc not scanned"
	}
}

// Err converts a non-ok status into an error tagged with a services marker.
func (s ScanStatus) Err() error {
	var marker error
	switch s.Code {
	case StatusOK:
		return nil
	case StatusNotInstalled, StatusWrongParameters, StatusError:
		marker = services.ErrExternalTool
	case StatusUnknownDrive:
		marker = services.ErrNotFound
	case StatusNoDiscInDrive:
		marker = services.ErrTransient
	default:
		return fmt.Errorf("scan status: %w", ErrNotScanned)
	}
	return services.Wrap(marker, "disc", "scan", s.Message(), nil)
}
