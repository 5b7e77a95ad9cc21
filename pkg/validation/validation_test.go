package validation_test

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactEmail(t *testing.T) {
	valid := []string{
		"ann@example.com",
		"first.last+tag@sub.example.co",
		"a_b%c-d@my-host.io",
	}
	invalid := []string{
		"",
		"ann.example.com",
		"ann@example",
		"ann@example.c",
		"ann@exa mple.com",
		"ann()@example.com",
		"анна@example.com",
		"ann@example.com\n",
		"ann@example.c0m",
	}

	v := validation.NewValidator()
	for _, e := range valid {
		assert.True(t, validation.IsContactEmail(e), e)
		assert.NoError(t, v.Var(e, validation.TagContactEmail), e)
	}
	for _, e := range invalid {
		assert.False(t, validation.IsContactEmail(e), e)
	}
}

func TestMaxLengthTag(t *testing.T) {
	v := validation.NewValidator()
	tag := validation.MaxLengthTag(3000)
	assert.Equal(t, "max=3000", tag)

	assert.NoError(t, v.Var(strings.Repeat("a", 3000), tag))
	assert.Error(t, v.Var(strings.Repeat("a", 3001), tag))
	// counts characters, not bytes
	assert.NoError(t, v.Var(strings.Repeat("я", 3000), tag))
}

func TestDefaultDenylist(t *testing.T) {
	d := validation.DefaultDenylist()
	assert.Equal(t, len(validation.DefaultSuspiciousPatterns), d.Len())

	hits := []string{
		"<script>alert(1)</script>",
		"<SCRIPT src=x>",
		"&lt;script&gt;alert(1)&lt;/script&gt;",
		"click JavaScript:void(0)",
		"eval(atob('x'))",
		"steal document.cookie now",
		"cheap VIAGRA",
		"Buy Now!!!",
		"earn $$$ fast",
		"best Casino online",
		"you won the lottery",
	}
	for _, h := range hits {
		_, ok := d.Match(h)
		assert.True(t, ok, h)
	}

	_, ok := d.Match("Hello, interested in your work.")
	assert.False(t, ok)
	_, ok = d.Match("I paid $5 for the evaluation")
	assert.False(t, ok)
}

func TestDenylist_MatchReturnsPattern(t *testing.T) {
	d, err := validation.NewDenylist([]string{`foo`, `bar`})
	require.NoError(t, err)

	p, ok := d.Match("xx BAR foo")
	assert.True(t, ok)
	assert.Equal(t, "foo", p)
}

func TestNewDenylist_InvalidPattern(t *testing.T) {
	_, err := validation.NewDenylist([]string{`(unclosed`})
	assert.Error(t, err)
}

func TestLoadDenylist(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		d, err := validation.LoadDenylist("")
		require.NoError(t, err)
		assert.Equal(t, len(validation.DefaultSuspiciousPatterns), d.Len())
	})

	t.Run("yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "denylist.yaml")
		require.NoError(t, os.WriteFile(path, []byte("patterns:\n  - crypto\n  - 'free\\s+money'\n"), 0o644))

		d, err := validation.LoadDenylist(path)
		require.NoError(t, err)
		assert.Equal(t, 2, d.Len())

		_, ok := d.Match("FREE   money here")
		assert.True(t, ok)
		_, ok = d.Match("casino")
		assert.False(t, ok)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := validation.LoadDenylist(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("no patterns", func(t *testing.T) {
		_, err := validation.ParseDenylist([]byte("patterns: []\n"))
		assert.Error(t, err)
	})
}

func TestFail(t *testing.T) {
	err := validation.Fail(apperror.KindInvalidEmail)
	assert.Equal(t, http.StatusBadRequest, err.Code)
	assert.Equal(t, apperror.KindInvalidEmail, err.Kind)
	assert.Equal(t, "Please enter a valid email address", err.Message)
	assert.True(t, err.IsClientError())
}
