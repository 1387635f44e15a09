package infra

import (
	"path/filepath"
	"strings"
	"sync"
)

// BundleResolver maps executables to the app bundle they belong to.
// Bundle ids are read once per bundle and cached.
type BundleResolver struct {
	runner CommandRunner

	mu    sync.Mutex
	cache map[string]string // bundle path -> bundle id, "" when unreadable
}

// NewBundleResolver creates a resolver that reads Info.plist with plutil.
func NewBundleResolver() *BundleResolver {
	return NewBundleResolverWithRunner(&RealCommandRunner{})
}

// NewBundleResolverWithRunner creates a resolver with an injectable runner (for testing)
func NewBundleResolverWithRunner(runner CommandRunner) *BundleResolver {
	return &BundleResolver{
		runner: runner,
		cache:  make(map[string]string),
	}
}

// BundlePathFor returns the .app directory when exe is a bundle's main
// executable (X.app/Contents/MacOS/exe). Helpers nested deeper, such as
// X.app/Contents/Frameworks/Y.app/..., resolve to their own bundle.
func BundlePathFor(exe string) (string, bool) {
	if exe == "" {
		return "", false
	}
	macOS := filepath.Dir(filepath.Clean(exe))
	if filepath.Base(macOS) != "MacOS" {
		return "", false
	}
	contents := filepath.Dir(macOS)
	if filepath.Base(contents) != "Contents" {
		return "", false
	}
	app := filepath.Dir(contents)
	if !strings.HasSuffix(app, ".app") {
		return "", false
	}
	return app, true
}

// Resolve returns the bundle path and id for exe.
func (r *BundleResolver) Resolve(exe string) (bundlePath, bundleID string, ok bool) {
	bundlePath, ok = BundlePathFor(exe)
	if !ok {
		return "", "", false
	}
	bundleID = r.bundleID(bundlePath)
	return bundlePath, bundleID, bundleID != ""
}

func (r *BundleResolver) bundleID(bundlePath string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.cache[bundlePath]; ok {
		return id
	}

	infoPlist := filepath.Join(bundlePath, "Contents", "Info.plist")
	out, err := r.runner.Output("plutil", "-extract", "CFBundleIdentifier", "raw", "-o", "-", infoPlist)
	if err != nil {
		return ""
	}
	id := strings.TrimSpace(string(out))
	if id != "" {
		r.cache[bundlePath] = id
	}
	return id
}
