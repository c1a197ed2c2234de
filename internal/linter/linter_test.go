package linter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ButlerSebastian/adl-sub000/internal/linter"
)

func findIssue(issues []linter.Issue, rule string) *linter.Issue {
	for i := range issues {
		if issues[i].Rule == rule {
			return &issues[i]
		}
	}
	return nil
}

func TestLint_FlagsNonPascalCaseTypeName(t *testing.T) {
	src := []byte(`type profile_data { name: string }`)
	issues := linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{})
	require.NotNil(t, findIssue(issues, "naming-pascal-case"))
}

func TestLint_FlagsNonSnakeCaseFieldName(t *testing.T) {
	src := []byte(`type Profile { FullName: string }`)
	issues := linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{})
	require.NotNil(t, findIssue(issues, "naming-snake-case"))
}

func TestLint_FlagsUppercaseEnumValue(t *testing.T) {
	src := []byte(`enum Status { Active, Inactive }`)
	issues := linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{})
	require.NotNil(t, findIssue(issues, "enum-value-lowercase"))
}

func TestLint_FlagsMissingDescription(t *testing.T) {
	src := []byte(`type Profile { name: string }`)
	issues := linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{})
	require.NotNil(t, findIssue(issues, "missing-description"))
}

func TestLint_PassesWhenDescriptionPresent(t *testing.T) {
	src := []byte(`type Profile { description: string name: string }`)
	issues := linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{})
	assert.Nil(t, findIssue(issues, "missing-description"))
}

func TestLint_FlagsOutOfOrderImports(t *testing.T) {
	src := []byte("import zebra\nimport alpha\n\ntype Foo {}\n")
	issues := linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{})
	require.NotNil(t, findIssue(issues, "import-order"))
}

func TestLint_FlagsUnusedImport(t *testing.T) {
	src := []byte("import shared/types\n\ntype Foo {}\n")
	issues := linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{})
	require.NotNil(t, findIssue(issues, "unused-import"))
}

func TestLint_DoesNotFlagUsedImport(t *testing.T) {
	src := []byte("import shared/types as Types\n\ntype Foo { widget: Types }\n")
	issues := linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{})
	assert.Nil(t, findIssue(issues, "unused-import"))
}

func TestLint_FlagsTrailingWhitespaceTabAndBlankLineWhitespace(t *testing.T) {
	src := []byte("type Foo { \n\t\n  \nname: string }\n")
	issues := linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{})
	assert.NotNil(t, findIssue(issues, "trailing-whitespace"))
	assert.NotNil(t, findIssue(issues, "tab-character"))
	assert.NotNil(t, findIssue(issues, "empty-line-whitespace"))
}

func TestLint_FlagsLineOverMaxLength(t *testing.T) {
	long := "type Foo { description: string" + string(make([]byte, 100)) + " }"
	issues := linter.Lint("t.adl", []byte(long), linter.DefaultRegistry(), linter.Options{})
	require.NotNil(t, findIssue(issues, "max-line-length"))
}

func TestLint_FlagsDuplicateField(t *testing.T) {
	src := []byte(`type Profile {
  name: string
  name: string
}`)
	issues := linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{})
	require.NotNil(t, findIssue(issues, "duplicate-field"))
}

func TestLint_FlagsMissingRequiredAgentFields(t *testing.T) {
	src := []byte(`agent A {
  name: string
}`)
	issues := linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{})
	require.NotNil(t, findIssue(issues, "missing-required-fields"))
}

func TestLint_PassesWhenAgentHasRequiredFields(t *testing.T) {
	src := []byte(`agent A {
  description: string
  owner: string
}`)
	issues := linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{})
	assert.Nil(t, findIssue(issues, "missing-required-fields"))
}

func TestLint_LegacyIDFieldRuleIsOffByDefault(t *testing.T) {
	src := []byte(`type Profile {
  id: string
  description: string
}`)
	issues := linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{})
	assert.Nil(t, findIssue(issues, "legacy-id-field"))

	issues = linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{Enable: []string{"legacy-id-field"}})
	assert.NotNil(t, findIssue(issues, "legacy-id-field"))
}

func TestLint_DisableTurnsOffADefaultRule(t *testing.T) {
	src := []byte(`type profile_data { description: string }`)
	issues := linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{Disable: []string{"naming-pascal-case"}})
	assert.Nil(t, findIssue(issues, "naming-pascal-case"))
}

func TestLint_MinSeverityFiltersLowerSeverityIssues(t *testing.T) {
	src := []byte(`enum Status { Active }`)
	issues := linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{MinSeverity: linter.SeverityWarning})
	assert.Nil(t, findIssue(issues, "enum-value-lowercase"))
}

func TestLint_DisableLineCommentSuppressesThatLineOnly(t *testing.T) {
	src := []byte("type profile_data { description: string } # adl-disable-line naming-pascal-case\ntype other_bad { description: string }\n")
	issues := linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{})
	for _, is := range issues {
		if is.Rule == "naming-pascal-case" {
			assert.Equal(t, 2, is.Location.Line)
		}
	}
}

func TestLint_DisableNextLineSuppressesFollowingLine(t *testing.T) {
	src := []byte("# adl-disable-next-line naming-pascal-case\ntype profile_data { description: string }\n")
	issues := linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{})
	assert.Nil(t, findIssue(issues, "naming-pascal-case"))
}

func TestLint_FileWideDisableSuppressesEverywhere(t *testing.T) {
	src := []byte("# adl-disable naming-pascal-case\ntype profile_data { description: string }\ntype other_bad { description: string }\n")
	issues := linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{})
	assert.Nil(t, findIssue(issues, "naming-pascal-case"))
}

func TestLint_FallsBackToLineRulesWhenParsingFails(t *testing.T) {
	src := []byte("type Profile { \nthis is not valid adl ###\n")
	issues := linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{})
	assert.NotNil(t, findIssue(issues, "trailing-whitespace"))
}

func TestAutofix_RemovesTrailingWhitespaceTabsAndBlankLineWhitespace(t *testing.T) {
	src := []byte("type Profile { \n\t\ndescription: string }\n")
	fixed, remaining := linter.Autofix("t.adl", src, linter.DefaultRegistry(), linter.Options{})
	assert.Nil(t, findIssue(remaining, "trailing-whitespace"))
	assert.Nil(t, findIssue(remaining, "tab-character"))
	assert.Nil(t, findIssue(remaining, "empty-line-whitespace"))
	assert.NotContains(t, string(fixed), "\t")
}

func TestAutofix_NeverIncreasesIssueCountForFixedRules(t *testing.T) {
	src := []byte("type Profile { \t\ndescription: string }   \n")
	before := linter.Lint("t.adl", src, linter.DefaultRegistry(), linter.Options{})
	_, after := linter.Autofix("t.adl", src, linter.DefaultRegistry(), linter.Options{})
	assert.LessOrEqual(t, len(after), len(before))
}

func TestLoadCustomRules_ValidatesAgainstDerivedSchemaAndFlagsMatches(t *testing.T) {
	doc := []byte(`
rules:
  - name: no-todo
    description: flag leftover TODO markers
    severity: warning
    pattern: "TODO"
    message: "remove the TODO before merging"
`)
	rules, err := linter.LoadCustomRules(doc)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	reg := linter.NewRegistry()
	reg.Add(rules[0])
	issues := linter.Lint("t.adl", []byte("type Foo { description: string } # TODO finish this\n"), reg, linter.Options{})
	require.NotNil(t, findIssue(issues, "no-todo"))
}

func TestLoadCustomRules_RejectsDocumentMissingRequiredField(t *testing.T) {
	doc := []byte(`
rules:
  - description: missing name and pattern
`)
	_, err := linter.LoadCustomRules(doc)
	assert.Error(t, err)
}
