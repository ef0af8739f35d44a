package pypi

import (
	"regexp"
	"strings"
)

var (
	extensions = []string{
		".tar.gz",
		".tar.bz2",
		".tar.xz",
		".zip",
		".whl",
		".egg",
		".exe",
	}

	exeRegex = regexp.MustCompile(`(\d+(?:\.\d+)+)`)
)

// versionFromFilename extracts the version from a distribution file name:
// requests-2.31.0.tar.gz, requests-2.31.0-py3-none-any.whl. It returns ""
// for anything it does not recognise.
func versionFromFilename(filename string) string {
	base, ext, ok := stripRecognizedExtension(filename)
	if !ok {
		return ""
	}

	splits := strings.Split(base, "-")
	if len(splits) < 2 {
		return ""
	}

	switch ext {
	case ".whl", ".egg":
		return splits[1]
	case ".exe":
		if match := exeRegex.FindStringSubmatch(filename); len(match) > 1 {
			return match[1]
		}
		return splits[len(splits)-1]
	default:
		return splits[len(splits)-1]
	}
}

func stripRecognizedExtension(filename string) (string, string, bool) {
	lower := strings.ToLower(filename)
	for _, x := range extensions {
		if strings.HasSuffix(lower, x) {
			return filename[:len(filename)-len(x)], x, true
		}
	}
	return "", "", false
}
