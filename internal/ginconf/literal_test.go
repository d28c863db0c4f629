package ginconf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalLiteralAccepts(t *testing.T) {
	tests := []struct {
		src  string
		want Value
	}{
		{"5", int64(5)},
		{"-5", int64(-5)},
		{"0x1F", int64(31)},
		{"1_000", int64(1000)},
		{"18446744073709551615", uint64(18446744073709551615)},
		{"2.5", 2.5},
		{"-0.25", -0.25},
		{"1e3", 1000.0},
		{"True", true},
		{"False", false},
		{"None", nil},
		{`"hello"`, "hello"},
		{`'hello'`, "hello"},
		{`'it\'s'`, "it's"},
		{`'say "hi"'`, `say "hi"`},
		{"[1, 2]", []Value{int64(1), int64(2)}},
		{"[]", []Value{}},
		{"(1, 2)", []Value{int64(1), int64(2)}},
		{"(5)", int64(5)},
		{"((1, 2), 'a')", []Value{[]Value{int64(1), int64(2)}, "a"}},
		{`{"a": 1, 'b': [True]}`, map[string]Value{"a": int64(1), "b": []Value{true}}},
		{"  7  ", int64(7)},
		{"1,2", []Value{int64(1), int64(2)}},
		{"1, 'a',", []Value{int64(1), "a"}},
		{"()", []Value{}},
		{"(1,)", []Value{int64(1)}},
		{"2j", complex(0, 2)},
		{"1.5e1J", complex(0, 15)},
		{"1+2j", complex(1, 2)},
		{"-1-2j", complex(-1, -2)},
		{"{1: 'a', 2.5: None}", Dict{{Key: int64(1), Value: "a"}, {Key: 2.5, Value: nil}}},
		{"{True: 1, 'k': 2}", Dict{{Key: true, Value: int64(1)}, {Key: "k", Value: int64(2)}}},
		{"{(1, 2): 3}", Dict{{Key: []Value{int64(1), int64(2)}, Value: int64(3)}}},
		{"{1: 'a', 1: 'b'}", Dict{{Key: int64(1), Value: "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := EvalLiteral(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalLiteralRejects(t *testing.T) {
	for _, src := range []string{
		"",
		"hello",
		"none",
		"some-name",
		"/tmp/out",
		"1 + 2",
		"a.b",
		"@ref",
		"%MACRO",
		"[1, hello]",
		"3 4",
		`"unterminated`,
		"true",
		"false",
		"null",
		"{x: 1}",
		"5 // c",
		"// c",
		"1j + 2",
		"1 + (2j)",
		"{1, 2}",
		"{{1: 2}: 3}",
		"1K",
	} {
		t.Run(src, func(t *testing.T) {
			_, err := EvalLiteral(src)
			assert.Error(t, err)
		})
	}
}

func TestParseValueSymbols(t *testing.T) {
	v, err := parseValue("@Terrain")
	require.NoError(t, err)
	assert.Equal(t, Reference{Name: "Terrain"}, v)

	v, err = parseValue("@scope/make_mesh()")
	require.NoError(t, err)
	assert.Equal(t, Reference{Name: "scope/make_mesh", Evaluate: true}, v)

	v, err = parseValue("%OVERALL_SEED")
	require.NoError(t, err)
	assert.Equal(t, Macro{Name: "OVERALL_SEED"}, v)

	v, err = parseValue("[@a, %B, 'c@d']")
	require.NoError(t, err)
	assert.Equal(t, []Value{Reference{Name: "a"}, Macro{Name: "B"}, "c@d"}, v)
}

func TestParseValueLowercaseAndIdentKeys(t *testing.T) {
	tests := []struct {
		src  string
		want Value
	}{
		{"true", true},
		{"false", false},
		{"null", nil},
		{"{x: 1}", map[string]Value{"x": int64(1)}},
		{"{x: %M, 2: @f}", Dict{{Key: "x", Value: Macro{Name: "M"}}, {Key: int64(2), Value: Reference{Name: "f"}}}},
		{"@a, @b", []Value{Reference{Name: "a"}, Reference{Name: "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := parseValue(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseValue("5 // c")
	assert.Error(t, err)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{nil, "None"},
		{true, "True"},
		{int64(-3), "-3"},
		{uint64(42), "42"},
		{1.0, "1.0"},
		{0.5, "0.5"},
		{"a\"b", `"a\"b"`},
		{[]Value{int64(1), "x"}, `[1, "x"]`},
		{map[string]Value{"b": int64(2), "a": int64(1)}, `{"a": 1, "b": 2}`},
		{Reference{Name: "f", Evaluate: true}, "@f()"},
		{Macro{Name: "M"}, "%M"},
		{complex(0, 2), "2j"},
		{complex(1.5, -2), "(1.5-2j)"},
		{Dict{{Key: int64(2), Value: "b"}, {Key: int64(1), Value: "a"}}, `{2: "b", 1: "a"}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.v))
	}
}

func TestFormatValueRoundTrip(t *testing.T) {
	for _, src := range []string{`[1, 2.5, "x", True, None]`, `{"k": [1.0]}`, "{1: [2j, (1+2j)]}"} {
		v, err := EvalLiteral(src)
		require.NoError(t, err)
		again, err := EvalLiteral(FormatValue(v))
		require.NoError(t, err)
		assert.Equal(t, v, again)
	}
}
