package model_test

import (
	"testing"

	"github.com/npackd/npackd-go/pkg/model"
	"github.com/npackd/npackd-go/pkg/version"
	"github.com/stretchr/testify/assert"
)

func pv(name, ver string) *model.PackageVersion {
	return &model.PackageVersion{PackageName: name, Version: version.MustParse(ver)}
}

func TestSimplifyCancelsAdjacentPair(t *testing.T) {
	a := pv("a.b.Foo", "1.0")
	b := pv("a.b.Foo", "2.0")
	ops := []model.InstallOperation{
		{PackageVersion: a, Kind: model.OpUninstall},
		{PackageVersion: a, Kind: model.OpInstall}, // cancels out with the uninstall above
		{PackageVersion: b, Kind: model.OpInstall},
	}
	got := model.Simplify(ops)
	assert.Equal(t, []model.InstallOperation{{PackageVersion: b, Kind: model.OpInstall}}, got)
}

func TestSimplifyCollapsesDuplicates(t *testing.T) {
	a := pv("a.b.Foo", "1.0")
	ops := []model.InstallOperation{
		{PackageVersion: a, Kind: model.OpInstall},
		{PackageVersion: a, Kind: model.OpInstall},
	}
	got := model.Simplify(ops)
	assert.Len(t, got, 1)
}

func TestSimplifyPreservesOrderOfSurvivors(t *testing.T) {
	a := pv("a.b.Foo", "1.0")
	b := pv("a.b.Bar", "1.0")
	ops := []model.InstallOperation{
		{PackageVersion: a, Kind: model.OpInstall},
		{PackageVersion: b, Kind: model.OpInstall},
	}
	got := model.Simplify(ops)
	assert.Equal(t, ops, got)
}
