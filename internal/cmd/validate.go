package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// maxPackageNameLength matches PyPI's practical naming limit.
const maxPackageNameLength = 100

var packageNamePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._-]*[a-zA-Z0-9])?$`)

// validatePackageName checks that a name follows PyPI naming conventions:
// alphanumeric at both ends, with hyphens, underscores, or periods inside.
func validatePackageName(name string) error {
	if name == "" {
		return fmt.Errorf("package name cannot be empty")
	}
	if len(name) > maxPackageNameLength {
		return fmt.Errorf("package name exceeds %d characters", maxPackageNameLength)
	}
	if !packageNamePattern.MatchString(name) {
		return fmt.Errorf("package name %q must start and end with alphanumeric characters "+
			"and contain only letters, numbers, hyphens, underscores, or periods", name)
	}
	return nil
}

// systemDirPrefixes are locations output files must never be written to.
var systemDirPrefixes = []string{
	"/etc/", "/usr/", "/bin/", "/sbin/", "/var/", "/sys/", "/proc/", "/boot/",
}

// validateOutputPath checks that an output path is safe to write: not inside
// a system directory, with an allowed extension, and with an existing parent
// directory.
func validateOutputPath(path string, allowedExtensions []string) error {
	if path == "" {
		return fmt.Errorf("output path cannot be empty")
	}

	resolved, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving output path: %w", err)
	}

	lower := strings.ToLower(resolved)
	for _, prefix := range systemDirPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return fmt.Errorf("cannot write to system directory: %s", filepath.Dir(resolved))
		}
	}

	if len(allowedExtensions) > 0 {
		ext := strings.ToLower(filepath.Ext(resolved))
		ok := false
		for _, allowed := range allowedExtensions {
			if ext == strings.ToLower(allowed) {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("output file extension %q not allowed (want one of %v)", ext, allowedExtensions)
		}
	}

	parent := filepath.Dir(resolved)
	info, err := os.Stat(parent)
	if err != nil {
		return fmt.Errorf("output directory does not exist: %s", parent)
	}
	if !info.IsDir() {
		return fmt.Errorf("output parent is not a directory: %s", parent)
	}

	return nil
}

var relativeDatePattern = regexp.MustCompile(`^(\d+)([dwm])$`)

// parseDateArg parses an absolute YYYY-MM-DD date, or a relative offset of
// the form Nd, Nw, or Nm (days, weeks, 30-day months ago).
func parseDateArg(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("date value cannot be empty")
	}

	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.Format("2006-01-02"), nil
	}

	m := relativeDatePattern.FindStringSubmatch(value)
	if m == nil {
		return "", fmt.Errorf("invalid date %q (want YYYY-MM-DD, Nd, Nw, or Nm)", value)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return "", fmt.Errorf("invalid date offset %q", value)
	}

	days := n
	switch m[2] {
	case "w":
		days = n * 7
	case "m":
		days = n * 30
	}
	return time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02"), nil
}
