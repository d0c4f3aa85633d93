package calculator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
)

// Alice and Bob like ice cream, only Alice likes pizza, Charlie is in no
// group and nobody has joined the book club.
func testGroups() models.GroupTable {
	return models.GroupTable{
		"Ice Cream": {"Alice", "Bob"},
		"Pizza":     {"Alice"},
		"Book Club": {},
	}
}

func TestResolveRecipients(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		groups     models.GroupTable
		want       []string
		wantErr    error
	}{
		{
			name:       "plus separator with group",
			expression: "Alice + Ice Cream + Doris",
			groups:     testGroups(),
			want:       []string{"Alice", "Bob", "Doris"},
		},
		{
			name:       "ampersand separator",
			expression: "Alice & Bob & Charlie",
			groups:     testGroups(),
			want:       []string{"Alice", "Bob", "Charlie"},
		},
		{
			name:       "semicolon separator with two groups",
			expression: "Pizza; Ice Cream",
			groups:     testGroups(),
			want:       []string{"Alice", "Bob"},
		},
		{
			name:       "minus subtracts a person",
			expression: "Doris + Ice Cream - Bob",
			groups:     testGroups(),
			want:       []string{"Alice", "Doris"},
		},
		{
			name:       "backslash subtracts a person",
			expression: "Ice Cream + Pizza \\ Alice",
			groups:     testGroups(),
			want:       []string{"Bob"},
		},
		{
			name:       "no spaces around separators",
			expression: "Bob+Alice&Alice",
			groups:     testGroups(),
			want:       []string{"Alice", "Bob"},
		},
		{
			name:       "subtracting an empty group changes nothing",
			expression: "Alice + Bob - Charlie - Book Club",
			groups:     testGroups(),
			want:       []string{"Alice", "Bob"},
		},
		{
			name:       "empty group adds nobody",
			expression: "Book Club + Doris",
			groups:     testGroups(),
			want:       []string{"Doris"},
		},
		{
			name:       "nil groups never expand",
			expression: "Ice Cream + Doris",
			groups:     nil,
			want:       []string{"Doris", "Ice Cream"},
		},
		{
			name:       "subtracting a group",
			expression: "Alice + Bob + Doris - Ice Cream",
			groups:     testGroups(),
			want:       []string{"Doris"},
		},
		{
			name:       "everyone subtracted",
			expression: "Ice Cream - Alice - Bob",
			groups:     testGroups(),
			wantErr:    ErrNoRecipients,
		},
		{
			name:       "only an empty group",
			expression: "Book Club",
			groups:     testGroups(),
			wantErr:    ErrNoRecipients,
		},
		{
			name:       "empty expression",
			expression: "   ",
			groups:     testGroups(),
			wantErr:    ErrRecipientExpressionInvalid,
		},
		{
			name:       "dangling separator",
			expression: "Alice + ",
			groups:     testGroups(),
			wantErr:    ErrRecipientExpressionInvalid,
		},
		{
			name:       "leading minus",
			expression: "- Bob",
			groups:     testGroups(),
			wantErr:    ErrRecipientExpressionInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveRecipients(tt.expression, tt.groups)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				var exprErr *ExpressionError
				require.True(t, errors.As(err, &exprErr))
				assert.Contains(t, exprErr.Error(), tt.expression)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRecipientsDeterministic(t *testing.T) {
	groups := testGroups()
	first, err := ResolveRecipients("Pizza + Doris & Ice Cream; Eve - Bob", groups)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		got, err := ResolveRecipients("Pizza + Doris & Ice Cream; Eve - Bob", groups)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
	assert.Equal(t, []string{"Alice", "Doris", "Eve"}, first)
}

func TestResolveRecipientsLeavesGroupsUntouched(t *testing.T) {
	groups := testGroups()
	before := groups.Clone()

	_, err := ResolveRecipients("Ice Cream - Bob", groups)
	require.NoError(t, err)
	assert.Equal(t, before, groups)
}
