package fetch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOutcome(t *testing.T) {
	tests := []struct {
		name  string
		items []int
		limit int
		err   error
		want  Kind
		len   int
	}{
		{name: "error wins over items", items: []int{1}, err: errors.New("down"), want: KindFailure},
		{name: "nil items", want: KindEmpty},
		{name: "empty items", items: []int{}, want: KindEmpty},
		{name: "uncapped", items: []int{1, 2, 3}, want: KindSuccess, len: 3},
		{name: "capped", items: []int{1, 2, 3}, limit: 1, want: KindSuccess, len: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ListOutcome(tt.items, tt.limit, tt.err)
			assert.Equal(t, tt.want, out.Kind)
			if tt.want == KindSuccess {
				assert.Len(t, out.Value, tt.len)
			}
		})
	}
}

func TestListOutcome_CopiesItems(t *testing.T) {
	items := []string{"a", "b"}
	out := ListOutcome(items, 0, nil)
	require.True(t, out.IsSuccess())

	items[0] = "changed"
	assert.Equal(t, "a", out.Value[0])
}

func TestFailureError(t *testing.T) {
	svc := &Failure{Kind: ServiceError, Endpoint: "https://api.test/search", Status: 503}
	assert.Equal(t, "https://api.test/search returned status 503", svc.Error())

	cause := errors.New("bad token")
	parse := &Failure{Kind: ParseFailure, Endpoint: "https://api.test/search", Err: cause}
	assert.Equal(t, "https://api.test/search parse failure: bad token", parse.Error())
	assert.ErrorIs(t, parse, cause)
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "empty", KindEmpty.String())
	assert.Equal(t, "network", NetworkFailure.String())
	assert.Equal(t, "failure(9)", FailureKind(9).String())
}
