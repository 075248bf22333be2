package loader_test

import (
	"testing"

	"github.com/npackd/npackd-go/pkg/loader"
	"github.com/npackd/npackd-go/pkg/npkgerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRepo = `<?xml version="1.0"?>
<root spec-version="3.0">
  <license name="MIT" title="MIT License"/>
  <package name="org.7zip.SevenZip">
    <title>7-Zip</title>
    <url>https://7-zip.org</url>
    <license>MIT</license>
  </package>
  <version package="org.7zip.SevenZip" name="19.0">
    <url>https://example.com/7z.msi</url>
    <sha1>abc123</sha1>
    <dependency package="com.microsoft.Windows" versionMin="6.0"/>
    <detect-file path="7z.exe" sha1="deadbeef"/>
  </version>
</root>`

func TestParseDecodesLicensesPackagesAndVersions(t *testing.T) {
	doc, err := loader.Parse([]byte(sampleRepo))
	require.NoError(t, err)
	require.Len(t, doc.Licenses, 1)
	require.Len(t, doc.Packages, 1)
	require.Len(t, doc.Versions, 1)

	v := doc.Versions[0]
	assert.Equal(t, "org.7zip.SevenZip", v.PackageName)
	assert.Equal(t, "19.0", v.Version.String())
	require.Len(t, v.Dependencies, 1)
	assert.Equal(t, "com.microsoft.Windows", v.Dependencies[0].Package)
	assert.False(t, v.Dependencies[0].HasMax)
}

func TestParseRejectsIncompatibleSpecVersion(t *testing.T) {
	_, err := loader.Parse([]byte(`<root><spec-version>4.0</spec-version></root>`))
	require.Error(t, err)
	assert.ErrorIs(t, err, npkgerrors.ErrIncompatibleRepo)
}

func TestParseRejectsMalformedXML(t *testing.T) {
	_, err := loader.Parse([]byte(`<root><package name="x"></root>`))
	require.Error(t, err)
	assert.ErrorIs(t, err, npkgerrors.ErrXMLParse)
}

func TestParseDiscardsDuplicateNamesWithinOneDocument(t *testing.T) {
	doc, err := loader.Parse([]byte(`<root>
		<package name="a.b.C"><title>First</title></package>
		<package name="a.b.C"><title>Second</title></package>
	</root>`))
	require.NoError(t, err)
	require.Len(t, doc.Packages, 1)
	assert.Equal(t, "First", doc.Packages[0].Title)
}
