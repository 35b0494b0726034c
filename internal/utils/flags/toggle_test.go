package flags_test

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	flagutils "github.com/temirov/reposcan/internal/utils/flags"
)

const (
	toggleFlagName      = "tree"
	toggleFlagShorthand = "t"
	toggleFlagUsage     = "Recursively search through subdirectories."
	flagSetName         = "toggle-test"
)

func TestAddToggleFlagParsesLiteralValues(testInstance *testing.T) {
	testCases := []struct {
		name          string
		arguments     []string
		expectedValue bool
		expectError   bool
	}{
		{name: "AbsentFlagKeepsDefault", arguments: nil, expectedValue: false},
		{name: "BareFlagEnables", arguments: []string{"--tree"}, expectedValue: true},
		{name: "ShorthandEnables", arguments: []string{"-t"}, expectedValue: true},
		{name: "ExplicitYes", arguments: []string{"--tree=yes"}, expectedValue: true},
		{name: "ExplicitOff", arguments: []string{"--tree=off"}, expectedValue: false},
		{name: "NumericTrue", arguments: []string{"--tree=1"}, expectedValue: true},
		{name: "InvalidLiteral", arguments: []string{"--tree=maybe"}, expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			flagSet := pflag.NewFlagSet(flagSetName, pflag.ContinueOnError)
			var toggleTarget bool
			flagutils.AddToggleFlag(flagSet, &toggleTarget, toggleFlagName, toggleFlagShorthand, false, toggleFlagUsage)

			parseError := flagSet.Parse(testCase.arguments)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedValue, toggleTarget)
		})
	}
}
