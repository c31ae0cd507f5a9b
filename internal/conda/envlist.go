package conda

import (
	"regexp"
	"strings"
)

// EnvironmentStatus says whether the named environment exists and where.
// Path is empty whenever Exists is false.
type EnvironmentStatus struct {
	Exists bool
	Path   string
}

// Environment is one row of `conda env list`.
type Environment struct {
	Name   string
	Path   string
	Active bool
}

// FindEnvironment scans listing for the first line of the form
// "<name><whitespace><path>". Later duplicates are ignored.
func FindEnvironment(listing, name string) EnvironmentStatus {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(name) + `\s+(.+)`)

	for _, line := range strings.Split(listing, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if m := pattern.FindStringSubmatch(line); m != nil {
			return EnvironmentStatus{Exists: true, Path: m[1]}
		}
	}
	return EnvironmentStatus{}
}

// ParseEnvironments turns a `conda env list` listing into rows in listing
// order. Environments outside the envs directories have no name.
func ParseEnvironments(listing string) []Environment {
	var envs []Environment

	for _, line := range strings.Split(listing, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		env := Environment{}
		switch {
		case len(fields) == 1:
			env.Path = fields[0]
		case fields[0] == "*":
			env.Active = true
			env.Path = strings.Join(fields[1:], " ")
		case len(fields) >= 2 && fields[1] == "*":
			env.Name = fields[0]
			env.Active = true
			env.Path = strings.Join(fields[2:], " ")
		default:
			env.Name = fields[0]
			env.Path = strings.Join(fields[1:], " ")
		}
		envs = append(envs, env)
	}
	return envs
}
