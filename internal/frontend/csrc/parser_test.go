package csrc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the C front end:
// - Function definitions and prototypes both extract with params and docs
// - void parameter lists produce zero params
// - Pointer return types and pointer params keep their declarator text
// - Named structs extract fields with line numbers
// - typedef over an inline struct documents the body under the typedef name
// - Plain typedefs record the underlying type
// - Enums extract constant names
// - Block and line comments above a declaration strip to plain prose
// - File-scope variables are ignored

func parseSource(t *testing.T, source string) *File {
	t.Helper()
	f, err := NewParser().Parse(context.Background(), "test.h", []byte(source))
	require.NoError(t, err)
	return f
}

func TestParser_Functions(t *testing.T) {
	t.Parallel()

	f := parseSource(t, `
/* Adds two numbers.
 * Returns their sum. */
int add(int a, int b);

// Frees the buffer.
void release(char *buf) {
}

int get_count(void);

int file_scope_var = 3;
`)

	require.Len(t, f.Functions, 3)

	add := f.Functions[0]
	assert.Equal(t, "add", add.Name)
	assert.Equal(t, "int", add.ReturnType)
	assert.Equal(t, "Adds two numbers.\nReturns their sum.", add.Doc)
	require.Len(t, add.Params, 2)
	assert.Equal(t, "a", add.Params[0].Name)
	assert.Equal(t, "int", add.Params[0].Type)
	assert.Equal(t, "int add(int a, int b)", add.Signature)

	release := f.Functions[1]
	assert.Equal(t, "release", release.Name)
	assert.Equal(t, "Frees the buffer.", release.Doc)
	require.Len(t, release.Params, 1)
	assert.Equal(t, "buf", release.Params[0].Name)

	count := f.Functions[2]
	assert.Equal(t, "get_count", count.Name)
	assert.Empty(t, count.Params)
}

func TestParser_Structs(t *testing.T) {
	t.Parallel()

	f := parseSource(t, `
// A growable byte buffer.
struct buffer {
	char *data;
	int len;
};
`)

	require.Len(t, f.Structs, 1)
	st := f.Structs[0]
	assert.Equal(t, "buffer", st.Name)
	assert.False(t, st.Union)
	assert.Equal(t, "A growable byte buffer.", st.Doc)
	require.Len(t, st.Fields, 2)
	assert.Equal(t, "data", st.Fields[0].Name)
	assert.Equal(t, "len", st.Fields[1].Name)
	assert.Equal(t, "int", st.Fields[1].Type)
}

func TestParser_TypedefStruct(t *testing.T) {
	t.Parallel()

	f := parseSource(t, `
// An opaque handle.
typedef struct {
	int fd;
} handle_t;
`)

	require.Len(t, f.Structs, 1)
	assert.Equal(t, "handle_t", f.Structs[0].Name)
	require.Len(t, f.Structs[0].Fields, 1)
	assert.Equal(t, "fd", f.Structs[0].Fields[0].Name)
	assert.Empty(t, f.Typedefs)
}

func TestParser_PlainTypedef(t *testing.T) {
	t.Parallel()

	f := parseSource(t, `typedef unsigned int uid_t;`)

	require.Len(t, f.Typedefs, 1)
	assert.Equal(t, "uid_t", f.Typedefs[0].Name)
	assert.Equal(t, "unsigned int", f.Typedefs[0].Underlying)
}

func TestParser_Enums(t *testing.T) {
	t.Parallel()

	f := parseSource(t, `
enum color {
	COLOR_RED,
	COLOR_GREEN = 2,
	COLOR_BLUE
};

typedef enum {
	MODE_READ,
	MODE_WRITE
} mode_t;
`)

	require.Len(t, f.Enums, 2)
	assert.Equal(t, "color", f.Enums[0].Name)
	assert.Equal(t, []string{"COLOR_RED", "COLOR_GREEN", "COLOR_BLUE"}, f.Enums[0].Constants)
	assert.Equal(t, "mode_t", f.Enums[1].Name)
	assert.Equal(t, []string{"MODE_READ", "MODE_WRITE"}, f.Enums[1].Constants)
}
