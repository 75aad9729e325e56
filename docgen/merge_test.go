package docgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeDocument_emptyExisting(t *testing.T) {
	t.Parallel()

	operation := "query user($id: ID!) {\n  user(id: $id) {\n    ...userFragment\n  }\n}"
	merged := MergeDocument("", operation, "user", testLogger())

	assert.Equal(t, operation+"\n", merged)
}

func TestMergeDocument_operationNameAndPlacementAreSticky(t *testing.T) {
	t.Parallel()

	existing := "query GetUser($id: ID!) {\n" +
		"  user(id: $id) {\n" +
		"    ...userFragment\n" +
		"  }\n" +
		"}\n"

	// the root field gained an argument, regenerated under its sticky name
	operation := "query GetUser($id: ID!, $verbose: Boolean) {\n" +
		"  user(id: $id, verbose: $verbose) {\n" +
		"    ...userFragment\n" +
		"  }\n" +
		"}"

	merged := MergeDocument(existing, operation, "user", testLogger())

	assert.Equal(t, "query GetUser($id: ID!, $verbose: Boolean) {\n"+
		"  user(id: $id, verbose: $verbose) {\n"+
		"    ...userFragment\n"+
		"  }\n"+
		"}\n", merged)
}

func TestMergeDocument_existingNameWinsOverGenerated(t *testing.T) {
	t.Parallel()

	existing := "query AccountHolder {\n" +
		"  user {\n" +
		"    ...userFragment\n" +
		"  }\n" +
		"}\n"
	operation := "query user {\n  user {\n    ...userFragment\n  }\n}"

	merged := MergeDocument(existing, operation, "user", testLogger())

	assert.Contains(t, merged, "query AccountHolder {")
	assert.NotContains(t, merged, "query user {")
}

func TestMergeDocument_unionsFragmentSpreads(t *testing.T) {
	t.Parallel()

	existing := "query GetUser {\n" +
		"  user {\n" +
		"    ...userSummaryFragment\n" +
		"  }\n" +
		"}\n"
	operation := "query user {\n  user {\n    ...userFragment\n  }\n}"

	merged := MergeDocument(existing, operation, "user", testLogger())

	assert.Equal(t, "query GetUser {\n"+
		"  user {\n"+
		"    ...userSummaryFragment\n"+
		"    ...userFragment\n"+
		"  }\n"+
		"}\n", merged)
}

func TestMergeDocument_scalarBodyKeepsExistingCallArguments(t *testing.T) {
	t.Parallel()

	existing := "query BuildInfo {\n  version(format: \"long\")\n}\n"
	operation := "query version($format: String) {\n  version(format: $format)\n}"

	merged := MergeDocument(existing, operation, "version", testLogger())

	// new parameter list, existing operation name and call-site arguments
	assert.Equal(t, "query BuildInfo($format: String) {\n  version(format: \"long\")\n}\n", merged)
}

func TestMergeDocument_unrelatedOperationsSurvive(t *testing.T) {
	t.Parallel()

	existing := "query GetAccount {\n" +
		"  account {\n" +
		"    ...accountFragment\n" +
		"  }\n" +
		"}\n\n" +
		"query GetUser {\n" +
		"  user {\n" +
		"    ...userFragment\n" +
		"  }\n" +
		"}\n"
	operation := "query user($id: ID!) {\n  user(id: $id) {\n    ...userFragment\n  }\n}"

	merged := MergeDocument(existing, operation, "user", testLogger())

	assert.Equal(t, "query GetAccount {\n"+
		"  account {\n"+
		"    ...accountFragment\n"+
		"  }\n"+
		"}\n\n"+
		"query GetUser($id: ID!) {\n"+
		"  user(id: $id) {\n"+
		"    ...userFragment\n"+
		"  }\n"+
		"}\n", merged)
}

func TestMergeDocument_noMatchAppends(t *testing.T) {
	t.Parallel()

	existing := "query GetAccount {\n" +
		"  account {\n" +
		"    ...accountFragment\n" +
		"  }\n" +
		"}\n"
	operation := "query user {\n  user {\n    ...userFragment\n  }\n}"

	merged := MergeDocument(existing, operation, "user", testLogger())

	assert.Equal(t, "query GetAccount {\n"+
		"  account {\n"+
		"    ...accountFragment\n"+
		"  }\n"+
		"}\n\n"+
		"query user {\n"+
		"  user {\n"+
		"    ...userFragment\n"+
		"  }\n"+
		"}\n", merged)
}

func TestMergeDocument_unparsableExistingFallsBackToAppend(t *testing.T) {
	t.Parallel()

	existing := "query Broken {\n  user {\n"
	operation := "query user {\n  user {\n    ...userFragment\n  }\n}"

	merged := MergeDocument(existing, operation, "user", testLogger())

	assert.Equal(t, "query Broken {\n  user {\n\nquery user {\n  user {\n    ...userFragment\n  }\n}\n", merged)
}

func TestMergeDocument_aliasedSelectionsInUnrelatedOperationsAreKept(t *testing.T) {
	t.Parallel()

	existing := "query Compare($a: ID!, $b: ID!) {\n" +
		"  left: account(id: $a) {\n" +
		"    ...accountFragment\n" +
		"  }\n" +
		"  right: account(id: $b) {\n" +
		"    ...accountFragment\n" +
		"  }\n" +
		"}\n"
	operation := "query user {\n  user {\n    ...userFragment\n  }\n}"

	merged := MergeDocument(existing, operation, "user", testLogger())

	assert.Contains(t, merged, "left: account(id: $a) {")
	assert.Contains(t, merged, "right: account(id: $b) {")
}
