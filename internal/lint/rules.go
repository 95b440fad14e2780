package lint

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

var (
	validFilenamePattern = regexp.MustCompile(`^[a-z0-9\-_.]+$`)
	invalidNameChars     = regexp.MustCompile(`[^a-z0-9\-_]`)
	multiHyphen          = regexp.MustCompile(`-+`)
)

// FilenameRule checks that document filenames produce clean URL slugs.
// Its findings are advice and reported as warnings.
type FilenameRule struct {
	extensions []string
}

// Name returns the rule identifier.
func (r *FilenameRule) Name() string {
	return "filename-conventions"
}

// AppliesTo returns true for document files.
func (r *FilenameRule) AppliesTo(filePath string) bool {
	if len(r.extensions) == 0 {
		return IsDocFile(filePath)
	}
	return hasExtension(filePath, r.extensions)
}

// Check validates filename conventions.
func (r *FilenameRule) Check(doc *Document) ([]Issue, error) {
	filePath := doc.Path
	filename := filepath.Base(filePath)
	var issues []Issue

	warn := func(message, explanation, fix string) {
		issues = append(issues, Issue{
			FilePath:    filePath,
			Severity:    SeverityWarning,
			Rule:        r.Name(),
			Message:     message,
			Explanation: explanation,
			Fix:         fix,
		})
	}

	if hasDoubleExtension(filename) {
		warn("Double extension detected",
			`Backup or temporary copies such as post.md.bak or post.mdx.old are
picked up by the site generator and published as pages.`,
			"Remove backup files from the content directory")
		return issues, nil
	}

	if hasUppercase(filename) {
		suggested := strings.ToLower(filename)
		warn("Filename contains uppercase letters",
			`The filename becomes the page slug. Uppercase letters make URLs case
sensitive on some hosts and not on others.

Current:   `+filename+`
Suggested: `+suggested,
			"Rename to lowercase: "+suggested)
	}

	if strings.Contains(filename, " ") {
		suggested := suggestFilename(filename)
		warn("Filename contains spaces",
			`Spaces become %20 in URLs and break copy-pasted links.

Current:   `+filename+`
Suggested: `+suggested,
			"Rename using hyphens: "+suggested)
	}

	if hasSpecialChars(filename) {
		suggested := suggestFilename(filename)
		invalidChars := findSpecialChars(filename)
		warn("Filename contains special characters: "+strings.Join(invalidChars, ", "),
			`Special characters are dropped or escaped when slugs are generated.

Current:   `+filename+`
Suggested: `+suggested+`

Allowed characters: [a-z0-9-_.]`,
			"Rename to remove special characters: "+suggested)
	}

	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))
	if strings.HasPrefix(nameWithoutExt, "-") || strings.HasPrefix(nameWithoutExt, "_") ||
		strings.HasSuffix(nameWithoutExt, "-") || strings.HasSuffix(nameWithoutExt, "_") {
		suggested := suggestFilename(filename)
		warn("Filename has leading or trailing hyphens/underscores",
			`Leading or trailing separators create malformed slugs like /-draft/.

Current:   `+filename+`
Suggested: `+suggested,
			"Rename to remove leading/trailing separators: "+suggested)
	}

	return issues, nil
}

// hasDoubleExtension reports names like post.md.bak where the second-to-last
// segment is itself a known extension.
func hasDoubleExtension(filename string) bool {
	parts := strings.Split(filename, ".")
	if len(parts) < 3 {
		return false
	}
	secondToLastExt := "." + parts[len(parts)-2]
	commonExts := []string{".md", ".mdx", ".markdown", ".tmp", ".bak", ".backup", ".old", ".yaml", ".yml", ".json"}
	for _, ext := range commonExts {
		if strings.EqualFold(secondToLastExt, ext) {
			return true
		}
	}
	return false
}

func hasUppercase(filename string) bool {
	for _, r := range filename {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// hasSpecialChars checks if filename contains characters outside [a-z0-9-_.]
func hasSpecialChars(filename string) bool {
	return !validFilenamePattern.MatchString(strings.ToLower(filename))
}

// findSpecialChars returns list of special characters found in filename.
func findSpecialChars(filename string) []string {
	seen := make(map[string]bool)
	var chars []string

	for _, r := range strings.ToLower(filename) {
		char := string(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			continue
		}
		if !seen[char] {
			chars = append(chars, char)
			seen[char] = true
		}
	}
	return chars
}

// suggestFilename returns a suggested filename following conventions.
func suggestFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	name := strings.ToLower(strings.TrimSuffix(filename, filepath.Ext(filename)))

	name = strings.ReplaceAll(name, " ", "-")
	name = invalidNameChars.ReplaceAllString(name, "")
	name = multiHyphen.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-_")

	return name + ext
}

// DetectDefaultPath detects the content directory when none is given.
func DetectDefaultPath() (string, bool) {
	for _, candidate := range []string{"content", "posts", "docs"} {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, true
		}
	}
	return ".", false
}
