package model_test

import (
	"testing"

	"github.com/npackd/npackd-go/pkg/model"
	"github.com/stretchr/testify/assert"
)

func TestValidateIconURLAcceptsEmpty(t *testing.T) {
	p := &model.Package{Name: "org.7zip.SevenZip"}
	assert.NoError(t, p.ValidateIconURL())
}

func TestValidateIconURLAcceptsAbsoluteHTTPS(t *testing.T) {
	p := &model.Package{Name: "org.7zip.SevenZip", IconURL: "https://7-zip.org/icon.png"}
	assert.NoError(t, p.ValidateIconURL())
}

func TestValidateIconURLRejectsRelative(t *testing.T) {
	p := &model.Package{Name: "org.7zip.SevenZip", IconURL: "icon.png"}
	assert.Error(t, p.ValidateIconURL())
}

func TestValidateIconURLRejectsNonHTTPScheme(t *testing.T) {
	p := &model.Package{Name: "org.7zip.SevenZip", IconURL: "ftp://example.com/icon.png"}
	assert.Error(t, p.ValidateIconURL())
}
