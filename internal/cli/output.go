package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/jurisdiction-links/internal/pipeline"
)

// WriteSummary writes a human-readable run report
func WriteSummary(w io.Writer, s *pipeline.Summary, outPath string) error {
	if s.Interrupted {
		if _, err := fmt.Fprintf(w, "Interrupted after %d of %d jurisdictions.\n", s.Processed+s.FetchFailed+s.ParseFailed, s.Total); err != nil {
			return err
		}
	}

	lines := []struct {
		label string
		value int
	}{
		{"Jurisdictions", s.Total},
		{"Updated", s.Processed},
		{"Fetch failures", s.FetchFailed},
		{"Layout mismatches", s.ParseFailed},
		{"Regulator links", s.RegulatorFound},
		{"Regulation links", s.RegulationFound},
		{"Tracker links skipped", s.RegulationExcluded},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-22s %d\n", l.label+":", l.value); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\nWrote %s in %s\n", outPath, s.Elapsed.Round(time.Millisecond))
	return err
}
