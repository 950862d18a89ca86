package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency cdrip relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// ScannerRequirements lists the TOC tools cdrip can drive. Only cdparanoia is
// mandatory; the others refine the table of contents when present.
func ScannerRequirements() []Requirement {
	return []Requirement{
		{Name: "cdparanoia", Command: "cdparanoia", Description: "Primary TOC scanner and audio extractor"},
		{Name: "cd-info", Command: "cd-info", Description: "Advanced TOC scanner (libcdio)", Optional: true},
		{Name: "cdcontrol", Command: "cdcontrol", Description: "Advanced TOC scanner (BSD)", Optional: true},
		{Name: "cdrdao", Command: "cdrdao", Description: "Pregap, pre-emphasis and CD-TEXT analysis", Optional: true},
		{Name: "eject", Command: "eject", Description: "Tray control", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// PathLookup reports tool availability by searching PATH.
type PathLookup struct{}

// Installed reports whether name resolves to an executable.
func (PathLookup) Installed(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}
