package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/bibweb/pkg/scan"
)

func TestParse(t *testing.T) {
	word := OneOrMore(Letter())
	number := OneOrMore(Digit())

	tests := []struct {
		name   string
		r      Recognizer
		input  string
		want   string
		wantOK bool
	}{
		{"literal", Literal("and"), "and more", "and", true},
		{"literal mismatch", Literal("and"), "an", "", false},
		{"word", word, "Smith, John", "Smith", true},
		{"number", number, "2019a", "2019", true},
		{"alternation first", Alt(Literal("ab"), Literal("a")), "abc", "ab", true},
		{"alternation second", Alt(Literal("ab"), Literal("a")), "ac", "a", true},
		{"optional present", Concat(Opt(Literal("-")), number), "-12", "-12", true},
		{"optional absent", Concat(Opt(Literal("-")), number), "12", "12", true},
		{"repeat zero", Concat(Repeat(Literal("x")), Literal("y")), "y", "y", true},
		{"none of", OneOrMore(NoneOf(",;")), "abc;def", "abc", true},
		{"any of", OneOrMore(AnyOf("ab")), "abba!", "abba", true},
		{"whitespace", OneOrMore(Whitespace()), " \t\nx", " \t\n", true},
		{"empty input", word, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scan.NewString("t", tt.input)
			got, ok := Parse(s, tt.r)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 0, s.Depth(), "marks must be balanced")
			if !ok {
				assert.Equal(t, int64(0), s.Offset(), "failed match must not consume")
			}
		})
	}
}

func TestConcat_BacktracksIntoGreedyRepeat(t *testing.T) {
	// a* must give back one "a" for the trailing literal to match.
	r := Concat(Repeat(Literal("a")), Literal("ab"))

	s := scan.NewString("t", "aaab!")
	got, ok := Parse(s, r)
	require.True(t, ok)
	assert.Equal(t, "aaab", got)
	assert.Equal(t, '!', s.Peek())
	assert.Equal(t, 0, s.Depth())
}

func TestAlt_BacktracksToLaterAlternative(t *testing.T) {
	r := Concat(Alt(Literal("a"), Literal("ab")), Literal("c"))

	s := scan.NewString("t", "abc")
	got, ok := Parse(s, r)
	require.True(t, ok)
	assert.Equal(t, "abc", got)
}

func TestRepeat_NullableOperandTerminates(t *testing.T) {
	r := Concat(Repeat(Opt(Literal("x"))), Literal("y"))

	s := scan.NewString("t", "xxy")
	got, ok := Parse(s, r)
	require.True(t, ok)
	assert.Equal(t, "xxy", got)

	s = scan.NewString("t", "z")
	assert.False(t, Scan(s, r))
	assert.Equal(t, int64(0), s.Offset())
}

func TestRecognizers_NoNetConsumptionOnFailure(t *testing.T) {
	recognizers := map[string]Recognizer{
		"literal":     Literal("abd"),
		"concat":      Concat(Literal("a"), Literal("b"), Literal("d")),
		"alt":         Alt(Literal("abd"), Literal("abe")),
		"repeat":      Concat(Repeat(AnyOf("abc")), Literal("d")),
		"one or more": Concat(OneOrMore(Letter()), Digit()),
		"predict":     Predict(func(rune) Recognizer { return Literal("abd") }),
	}

	for name, r := range recognizers {
		t.Run(name, func(t *testing.T) {
			s := scan.NewString("t", "abc")
			s.Advance()
			before := s.Offset()

			assert.False(t, Scan(s, r))
			assert.Equal(t, before, s.Offset())
			assert.Equal(t, 0, s.Depth())
		})
	}
}

func TestRecognizers_RollBackWhenContinuationFails(t *testing.T) {
	s := scan.NewString("t", "abc")
	ok := Literal("ab").Recognize(s, func() bool { return false })
	assert.False(t, ok)
	assert.Equal(t, int64(0), s.Offset())

	ok = Letter().Recognize(s, func() bool { return false })
	assert.False(t, ok)
	assert.Equal(t, int64(0), s.Offset())
	assert.Equal(t, 0, s.Depth())
}

func TestPredict(t *testing.T) {
	quoted := Concat(Literal(`"`), Repeat(NoneOf(`"`)), Literal(`"`))
	bare := OneOrMore(NoneOf(" "))
	r := Predict(func(c rune) Recognizer {
		switch {
		case c == '"':
			return quoted
		case c == scan.EOF:
			return nil
		default:
			return bare
		}
	})

	s := scan.NewString("t", `"two words" bare`)
	got, ok := Parse(s, r)
	require.True(t, ok)
	assert.Equal(t, `"two words"`, got)

	s.SkipWhitespace()
	got, ok = Parse(s, r)
	require.True(t, ok)
	assert.Equal(t, "bare", got)

	assert.False(t, Scan(s, r))
}

func TestHas(t *testing.T) {
	s := scan.NewString("t", "topic: x")
	assert.True(t, Has(s, Literal("topic")))
	assert.Equal(t, int64(0), s.Offset())
	assert.False(t, Has(s, Literal("type")))
}

func TestAdvanceTo(t *testing.T) {
	s := scan.NewString("t", "Knuth and Lamport")
	sep := Concat(OneOrMore(Whitespace()), Literal("and"), OneOrMore(Whitespace()))

	require.True(t, AdvanceTo(s, sep))
	assert.Equal(t, int64(5), s.Offset())
	assert.Equal(t, ' ', s.Peek())

	s = scan.NewString("t", "Knuth")
	assert.False(t, AdvanceTo(s, sep))
	assert.Equal(t, int64(5), s.Offset())
	assert.False(t, s.HasNext())
	assert.Equal(t, 0, s.Depth())
}

func TestParseTo(t *testing.T) {
	s := scan.NewString("t", "key = value;rest")
	assign := Concat(Repeat(Whitespace()), Literal("="), Repeat(Whitespace()))

	got, ok := ParseTo(s, assign)
	require.True(t, ok)
	assert.Equal(t, "key", got)
	assert.Equal(t, ' ', s.Peek())
	require.True(t, Scan(s, assign))

	got, ok = ParseToDelimiter(s, ";")
	require.True(t, ok)
	assert.Equal(t, "value", got)
	assert.Equal(t, 'r', s.Peek())

	got, ok = ParseToDelimiter(s, ";")
	assert.False(t, ok)
	assert.Equal(t, "rest", got)
	assert.False(t, s.HasNext())
	assert.Equal(t, 0, s.Depth())
}

func TestParseTo_LeavesDelimiterUnread(t *testing.T) {
	tests := []struct {
		input string
		delim string
		want  string
		found bool
		next  rune
	}{
		{"key=value", "=", "key", true, '='},
		{"=value", "=", "", true, '='},
		{"no delimiter here", ";", "no delimiter here", false, scan.EOF},
		{"", ";", "", false, scan.EOF},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s := scan.NewString("t", tt.input)
			got, found := ParseTo(s, Literal(tt.delim))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.next, s.Peek())
			assert.Equal(t, 0, s.Depth())
		})
	}
}
