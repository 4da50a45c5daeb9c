package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/importgraph/grimp/internal/importparse"
)

func TestAbsoluteNamePackageFile(t *testing.T) {
	// pkg.sub.a is a package ("__init__" file for pkg.sub.a).
	assert.Equal(t, "pkg.sub.a.b", AbsoluteName("pkg.sub.a", true, ".b"))
	assert.Equal(t, "pkg.sub.b", AbsoluteName("pkg.sub.a", true, "..b"))
}

func TestAbsoluteNameNonPackageFile(t *testing.T) {
	// pkg.sub.a is a plain module file.
	assert.Equal(t, "pkg.sub.b", AbsoluteName("pkg.sub.a", false, ".b"))
	assert.Equal(t, "pkg.b", AbsoluteName("pkg.sub.a", false, "..b"))
}

func TestAbsoluteNameNoSuffix(t *testing.T) {
	assert.Equal(t, "pkg.sub", AbsoluteName("pkg.sub.a", false, "."))
}

func TestAbsoluteNameNoDots(t *testing.T) {
	assert.Equal(t, "os.path", AbsoluteName("pkg.a", false, "os.path"))
}

func TestResolveInternalExact(t *testing.T) {
	r := New([]string{"pkg", "pkg.a", "pkg.b"}, []string{"pkg"})
	res := r.Resolve("pkg.a", false, importparse.ImportedObject{Name: ".b"}, false)
	assert.True(t, res.Internal)
	assert.Equal(t, "pkg.b", res.ModuleName)
}

func TestResolveInternalFallsBackToParent(t *testing.T) {
	r := New([]string{"pkg", "pkg.a"}, []string{"pkg"})
	res := r.Resolve("pkg.a", false, importparse.ImportedObject{Name: "pkg.missing_submodule"}, false)
	assert.True(t, res.Internal)
	assert.Equal(t, "pkg", res.ModuleName)
}

func TestResolveExternalDisabled(t *testing.T) {
	r := New([]string{"pkg", "pkg.a"}, []string{"pkg"})
	res := r.Resolve("pkg.a", false, importparse.ImportedObject{Name: "django.db.models"}, false)
	assert.False(t, res.Resolved)
}

func TestResolveExternalDistillation(t *testing.T) {
	r := New([]string{"pkg", "pkg.a"}, []string{"pkg"})
	res := r.Resolve("pkg.a", false, importparse.ImportedObject{Name: "django.db.models"}, true)
	assert.True(t, res.Resolved)
	assert.False(t, res.Internal)
	assert.Equal(t, "django", res.ModuleName)
}

func TestResolveExternalSharesHeadWithInternalRoot(t *testing.T) {
	r := New([]string{"google", "google.cloud"}, []string{"google.cloud"})
	res := r.Resolve("google.cloud", true, importparse.ImportedObject{Name: "google.protobuf.text"}, true)
	assert.True(t, res.Resolved)
	assert.Equal(t, "google.protobuf", res.ModuleName)
}

func TestResolveExternalAncestorOfPackageRootIsDropped(t *testing.T) {
	r := New([]string{"pkg.vendor.lib"}, []string{"pkg.vendor.lib"})
	res := r.Resolve("pkg.vendor.lib", true, importparse.ImportedObject{Name: "pkg.vendor"}, true)
	assert.False(t, res.Resolved)
}

func TestResolveExternalAncestorOfInternalSubmoduleButNotRootIsDistilled(t *testing.T) {
	// "pkg.vendor" is an ancestor of the internal submodule
	// "pkg.vendor.lib", but not of the package root "pkg" itself, so
	// it is a real external namespace sharing a head component with
	// our own root, not a namespace we partially occupy: it should
	// still be distilled rather than dropped.
	r := New([]string{"pkg", "pkg.vendor.lib"}, []string{"pkg"})
	res := r.Resolve("pkg", true, importparse.ImportedObject{Name: "pkg.vendor.sub"}, true)
	assert.True(t, res.Resolved)
	assert.False(t, res.Internal)
	assert.Equal(t, "pkg.vendor", res.ModuleName)
}
