package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { Init() }

type passwordPayload struct {
	Password string `json:"password" binding:"strongpwd"`
}

func TestStrongPasswordAlias(t *testing.T) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	assert.NoError(t, v.Struct(passwordPayload{Password: "Str0ng!pass"}))

	for _, pwd := range []string{"weak", "alllowercase1!", "ALLUPPERCASE1!", "NoDigitsHere!", "NoSymbols123"} {
		err := v.Struct(passwordPayload{Password: pwd})
		require.Error(t, err, "password %q should be rejected", pwd)

		details := ToDetails(err)
		assert.Contains(t, details["password"], "uppercase", "message names the policy, field keyed by json tag")
	}
}
