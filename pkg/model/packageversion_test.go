package model_test

import (
	"strings"
	"testing"

	"github.com/npackd/npackd-go/pkg/model"
	"github.com/stretchr/testify/assert"
)

func TestValidateMSIGUIDAcceptsEmpty(t *testing.T) {
	pv := &model.PackageVersion{}
	assert.True(t, pv.ValidateMSIGUID())
}

func TestValidateMSIGUIDAcceptsExactly38Chars(t *testing.T) {
	pv := &model.PackageVersion{MSIGUID: "{12345678-1234-1234-1234-123456789012}"}
	assert.Len(t, pv.MSIGUID, 38)
	assert.True(t, pv.ValidateMSIGUID())
}

func TestValidateMSIGUIDRejectsWrongLength(t *testing.T) {
	pv := &model.PackageVersion{MSIGUID: "{not-38-chars}"}
	assert.False(t, pv.ValidateMSIGUID())
	assert.NotEqual(t, 38, len(strings.TrimSpace(pv.MSIGUID)))
}
