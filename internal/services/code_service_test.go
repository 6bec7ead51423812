package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	repo, _ := newTestRepo(t)
	svc := NewCodeService(repo)
	ctx := context.Background()

	name := "  Ann  "
	vc, err := svc.Generate(ctx, &name)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{8}$`), vc.Code)
	assert.False(t, vc.IsUsed)
	require.NotNil(t, vc.Name)
	assert.Equal(t, "Ann", *vc.Name)

	blank := " "
	vc, err = svc.Generate(ctx, &blank)
	require.NoError(t, err)
	assert.Nil(t, vc.Name)
}

func TestGenerateCodeRetriesOnCollision(t *testing.T) {
	repo, _ := newTestRepo(t)
	svc := NewCodeService(repo)
	ctx := context.Background()

	codes := []string{"AAAA0000", "AAAA0000", "BBBB1111"}
	svc.newCode = func() string {
		c := codes[0]
		codes = codes[1:]
		return c
	}

	first, err := svc.Generate(ctx, nil)
	require.NoError(t, err)
	second, err := svc.Generate(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, "AAAA0000", first.Code)
	assert.Equal(t, "BBBB1111", second.Code)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestGenerateCodeGivesUp(t *testing.T) {
	repo, _ := newTestRepo(t)
	svc := NewCodeService(repo)
	svc.newCode = func() string { return "SAME0000" }

	_, err := svc.Generate(context.Background(), nil)
	require.NoError(t, err)
	_, err = svc.Generate(context.Background(), nil)
	assert.Error(t, err)
}
