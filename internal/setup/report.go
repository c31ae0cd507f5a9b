package setup

import (
	"context"

	"github.com/theblitlabs/thz-setup/internal/conda"
)

// Report prints the current state of the installation without changing it:
// the conda check, every known environment and, when the configured
// environment exists, the driver check.
func (s *Setup) Report(ctx context.Context) error {
	if err := s.CheckPrerequisite(ctx); err != nil {
		return err
	}

	listing, err := s.conda.ListEnvironments(ctx)
	if err != nil {
		return newError(classify(err), StageInspect, msgListFailed, err)
	}

	name := s.cfg.Environment.Name
	found := false
	for _, env := range conda.ParseEnvironments(listing) {
		marker := " "
		if env.Name == name && !found {
			marker = ">"
			found = true
		}
		label := env.Name
		if label == "" {
			label = "(unnamed)"
		}
		if env.Active {
			label += " *"
		}
		s.printer.Printf("%s %-20s %s\n", marker, label, env.Path)
	}

	status := conda.FindEnvironment(listing, name)
	if !status.Exists {
		s.printer.Println("Virtual environment for the application does not exist")
		return newError(KindVerificationMismatch, StageInspect, "Environment "+name+" does not exist", nil)
	}
	s.printer.Printf("Environment exist in: %s\n", status.Path)

	return s.VerifyDriver(ctx)
}
