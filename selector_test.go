package jsonpatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunoga/jsonpatch"
	"github.com/brunoga/jsonpatch/internal/testmodels"
	"github.com/brunoga/jsonpatch/naming"
)

func TestSelector(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			"simple field",
			jsonpatch.Field(func(u *testmodels.User) *int { return &u.ID }).String(),
			"/id",
		},
		{
			"tagged field",
			jsonpatch.Field(func(u *testmodels.User) *string { return &u.Name }).String(),
			"/full_name",
		},
		{
			"nested field",
			jsonpatch.Field(func(u *testmodels.User) *int { return &u.Info.Age }).String(),
			"/info/age",
		},
		{
			"slice index",
			jsonpatch.Field(func(u *testmodels.User) *[]string { return &u.Roles }).Index(1).String(),
			"/roles/1",
		},
		{
			"slice append",
			jsonpatch.Field(func(u *testmodels.User) *[]string { return &u.Roles }).Append().String(),
			"/roles/-",
		},
		{
			"map key",
			jsonpatch.Field(func(u *testmodels.User) *map[string]int { return &u.Score }).Key("a/b").String(),
			"/score/a~1b",
		},
		{
			"typed map key",
			jsonpatch.Field(func(u *testmodels.User) *map[string]int { return &u.Score }).Key(7).String(),
			"/score/7",
		},
		{
			"through pointer",
			jsonpatch.Field(func(u *testmodels.User) *string { return &u.Manager.Info.Address }).String(),
			"/manager/info/addr",
		},
		{
			"embedded member",
			jsonpatch.Field(func(a *testmodels.Audited) *int { return &a.Version }).String(),
			"/version",
		},
		{
			"whole document",
			jsonpatch.Field(func(u *testmodels.User) *testmodels.User { return u }).String(),
			"",
		},
		{
			"nested record",
			jsonpatch.Field(func(n *testmodels.Nested) *testmodels.Simple { return &n.Simple }).String(),
			"/simple",
		},
		{
			"first member of nested record",
			jsonpatch.Field(func(n *testmodels.Nested) *string { return &n.Simple.StringProperty }).String(),
			"/simple/stringproperty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.path != tt.want {
				t.Errorf("Path() = %v, want %v", tt.path, tt.want)
			}
		})
	}
}

func TestSelector_CaseTransform(t *testing.T) {
	path := jsonpatch.Field(func(n *testmodels.Nested) *[]int { return &n.Simple.Integers }).Index(0)

	tests := []struct {
		transform naming.CaseTransform
		want      string
	}{
		{naming.LowerCase, "/simple/integers/0"},
		{naming.OriginalCase, "/Simple/Integers/0"},
		{naming.UpperCase, "/SIMPLE/INTEGERS/0"},
		{naming.CamelCase, "/simple/integers/0"},
	}

	for _, tt := range tests {
		t.Run(tt.transform.String(), func(t *testing.T) {
			got, err := path.Pointer(jsonpatch.WithCaseTransform(tt.transform))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	camel := jsonpatch.Field(func(n *testmodels.Nested) *int { return &n.NestedInt })
	got, err := camel.Pointer(jsonpatch.WithCaseTransform(naming.CamelCase))
	require.NoError(t, err)
	assert.Equal(t, "/nestedInt", got)
}

func TestSelector_NameResolver(t *testing.T) {
	type Config struct {
		ListenAddress string `yaml:"listen_address"`
	}

	path := jsonpatch.Field(func(c *Config) *string { return &c.ListenAddress })

	got, err := path.Pointer(jsonpatch.WithNameResolver(yamlNames))
	require.NoError(t, err)
	assert.Equal(t, "/listen_address", got)

	got, err = path.Pointer()
	require.NoError(t, err)
	assert.Equal(t, "/listenaddress", got)
}

func TestSelector_Errors(t *testing.T) {
	tests := []struct {
		name string
		path interface {
			Pointer(...jsonpatch.Option) (string, error)
			String() string
		}
	}{
		{"unexported field", jsonpatch.Field((*testmodels.User).AgePtr)},
		{"hidden field", jsonpatch.Field(func(u *testmodels.User) *string { return &u.Secret })},
		{"nil result", jsonpatch.Field(func(u *testmodels.User) *int { return nil })},
		{"not a member", jsonpatch.Field(func(u *testmodels.User) *int { return new(int) })},
		{"past recursion", jsonpatch.Field(func(u *testmodels.User) *int { return &u.Manager.Manager.ID })},
		{"list element", jsonpatch.Field(func(u *testmodels.User) *string { return &u.Roles[0] })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.path.Pointer()
			assert.Error(t, err)

			s := tt.path.String()
			assert.NotEmpty(t, s)
			err = jsonpatch.Operation{Op: jsonpatch.OpRemove, Path: s}.Validate()
			assert.ErrorIs(t, err, jsonpatch.ErrMalformedDocument, "%q must not parse as a pointer", s)
		})
	}
}

func TestSelector_PathsResolve(t *testing.T) {
	u := testmodels.User{Info: testmodels.Detail{Age: 1}, Roles: []string{"a"}}

	age := jsonpatch.Field(func(u *testmodels.User) *int { return &u.Info.Age })
	roles := jsonpatch.Field(func(u *testmodels.User) *[]string { return &u.Roles })

	for _, transform := range []naming.CaseTransform{naming.LowerCase, naming.OriginalCase, naming.UpperCase, naming.CamelCase} {
		opt := jsonpatch.WithCaseTransform(transform)
		doc := jsonpatch.NewTyped[testmodels.User](opt).
			Replace(age, u.Info.Age+1).
			Add(roles.Append(), transform.String())
		require.NoError(t, doc.ApplyTo(&u), transform.String())
	}

	assert.Equal(t, 5, u.Info.Age)
	assert.Equal(t, []string{"a", "lower", "original", "upper", "camel"}, u.Roles)
}
