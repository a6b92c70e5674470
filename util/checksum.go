package util

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"sort"
	"strings"
)

var ErrUnsupportedAlgorithm = errors.New("unsupported checksum algorithm")

var hashers = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
}

// Algorithms returns the names accepted by Checksum, sorted.
func Algorithms() []string {
	out := make([]string, 0, len(hashers))
	for k := range hashers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ValidateAlgorithm normalizes an algorithm selector and checks that it
// is supported.
func ValidateAlgorithm(algorithm string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(algorithm))
	if _, ok := hashers[name]; !ok {
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedAlgorithm, algorithm, strings.Join(Algorithms(), ", "))
	}
	return name, nil
}

// Checksum returns the lowercase hex digest of the file contents.
func Checksum(path string, algorithm string) (string, error) {
	name, err := ValidateAlgorithm(algorithm)
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := hashers[name]()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// AlgorithmForDigest guesses the algorithm that produced a hex digest from
// its length. It returns "" when the length matches none of them.
func AlgorithmForDigest(digest string) string {
	for _, name := range Algorithms() {
		if hashers[name]().Size()*2 == len(digest) {
			return name
		}
	}
	return ""
}
