// Package pathcodec maps human page names to their on-disk representation.
//
// A page named "Getting Started" at position 3 lives in
// "03_Getting-Started/Getting-Started.md" under its parent's directory.
package pathcodec

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/starford/wikitree/internal/apperr"
	"github.com/starford/wikitree/internal/models"
)

const (
	// Width is the minimum number of digits in a directory position prefix.
	Width = 2
	// PageExt is the extension of page files.
	PageExt = ".md"
	// PagePattern matches page files in path.Match syntax; underscore-prefixed
	// files are generated.
	PagePattern = "[^_]*.md"
	// MaxSegment is the longest directory or file name, in bytes, that common
	// filesystems accept.
	MaxSegment = 255
	// SidebarFile and FooterFile are the generated navigation artifacts.
	SidebarFile = "_Sidebar.md"
	FooterFile  = "_Footer.md"
)

// forbidden lists characters that cannot appear in a page name. Control
// characters are rejected separately.
const forbidden = "\\/:*?\"<>|"

// ToDashedName replaces spaces with hyphens.
func ToDashedName(name string) string {
	return strings.ReplaceAll(name, " ", "-")
}

// ToHumanName replaces hyphens with spaces. Literal hyphens in the original
// name are not preserved.
func ToHumanName(name string) string {
	return strings.ReplaceAll(name, "-", " ")
}

// DirectoryName returns the positional directory name for a page. Positions
// wider than Width grow the prefix instead of truncating it.
func DirectoryName(name string, position int) string {
	return fmt.Sprintf("%0*d_%s", Width, position, ToDashedName(name))
}

// FileName returns the page file name for name.
func FileName(name string) string {
	return ToDashedName(name) + PageExt
}

// Validate rejects empty names, names holding path separators, wildcard or
// control characters, names the tree scan would skip (a leading "_" marks a
// generated file, a leading "." a hidden one) and names too long for the
// filesystem.
func Validate(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is empty", apperr.ErrInvalidName)
	}
	if i := strings.IndexAny(name, forbidden); i >= 0 {
		return fmt.Errorf("%w: %q contains %q; names cannot contain escape sequences or \\ / : * ? \" < > |",
			apperr.ErrInvalidName, name, name[i])
	}
	if i := strings.IndexFunc(name, unicode.IsControl); i >= 0 {
		r, _ := utf8.DecodeRuneInString(name[i:])
		return fmt.Errorf("%w: %q contains control character %U", apperr.ErrInvalidName, name, r)
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("%w: %q is not valid UTF-8", apperr.ErrInvalidName, name)
	}
	if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q cannot start with %q", apperr.ErrInvalidName, name, name[:1])
	}
	return checkLength(DirectoryName(name, 0))
}

func checkLength(segment string) error {
	if len(segment) > MaxSegment {
		return fmt.Errorf("%w: %q is %d bytes on disk, the limit is %d",
			apperr.ErrInvalidName, segment, len(segment), MaxSegment)
	}
	return nil
}

// BuildNewPagePath validates name and returns where a page with that name
// would live at position under parent.
func BuildNewPagePath(name string, parent models.Page, position int) (string, error) {
	if err := Validate(name); err != nil {
		return "", err
	}
	if position < 0 {
		return "", fmt.Errorf("%w: %d", apperr.ErrInvalidPosition, position)
	}
	dir := DirectoryName(name, position)
	if err := checkLength(dir); err != nil {
		return "", err
	}
	return path.Join(parent.Dir(), dir, FileName(name)), nil
}

// ParsePosition reads the numeric prefix of a positional directory name.
func ParsePosition(dirName string) (int, error) {
	prefix, _, ok := strings.Cut(dirName, "_")
	if !ok {
		return 0, fmt.Errorf("%w: directory %q has no position prefix", apperr.ErrStructural, dirName)
	}
	n, err := strconv.Atoi(prefix)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: directory %q has a non-numeric position prefix", apperr.ErrStructural, dirName)
	}
	return n, nil
}

// IsPageFile reports whether fileName is a page file rather than a generated
// artifact or another kind of file.
func IsPageFile(fileName string) bool {
	return !strings.HasPrefix(fileName, "_") && path.Ext(fileName) == PageExt
}

// SameName compares page names the way lookups do: dash-normalized and
// case-insensitive.
func SameName(a, b string) bool {
	return strings.EqualFold(ToDashedName(a), ToDashedName(b))
}
