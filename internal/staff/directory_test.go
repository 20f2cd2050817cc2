package staff

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Defimaso/Diario362-sub001/config"
)

func testDirectory() *Directory {
	return New("Boss@Diario.it", []Entry{
		{Email: "ilaria@diario.it", DisplayName: "Ilaria", LegacyName: "Ilaria"},
		{Email: "ilaria.alias@gmail.com", DisplayName: "Ilaria", LegacyName: "ilaria"},
		{Email: "marco@diario.it", DisplayName: "Marco", LegacyName: "Marco"},
		{Email: "support@diario.it", DisplayName: "Supporto"},
		{Email: "MARCO@diario.it", DisplayName: "Duplicate", LegacyName: "Other"},
	})
}

func TestEmailsForFragment(t *testing.T) {
	d := testDirectory()

	assert.Equal(t, []string{"ilaria.alias@gmail.com", "ilaria@diario.it"}, d.EmailsForFragment("ILARIA"))
	assert.Equal(t, []string{"marco@diario.it"}, d.EmailsForFragment(" marco "))
	assert.Empty(t, d.EmailsForFragment("Nobody"))
	assert.Empty(t, d.EmailsForFragment("Other"), "duplicate email entries are ignored")
}

func TestEmailsForFragment_ReturnsCopy(t *testing.T) {
	d := testDirectory()

	got := d.EmailsForFragment("ilaria")
	got[0] = "mutated"

	assert.Equal(t, "ilaria.alias@gmail.com", d.EmailsForFragment("ilaria")[0])
}

func TestLookupAndLegacyName(t *testing.T) {
	d := testDirectory()

	e, ok := d.Lookup("Marco@Diario.it")
	assert.True(t, ok)
	assert.Equal(t, "Marco", e.DisplayName)

	name, ok := d.LegacyNameFor("ilaria.alias@gmail.com")
	assert.True(t, ok)
	assert.Equal(t, "ilaria", name)

	_, ok = d.LegacyNameFor("support@diario.it")
	assert.False(t, ok)

	assert.Equal(t, "boss@diario.it", d.SuperAdminEmail())
	assert.Equal(t, 4, d.Len())
}

func TestFromConfig(t *testing.T) {
	d := FromConfig(config.StaffConfig{
		SuperAdminEmail: "boss@diario.it",
		Directory: []config.StaffEntryConfig{
			{Email: "serena@diario.it", DisplayName: "Serena", LegacyName: "Serena"},
		},
	})

	assert.Equal(t, []string{"serena@diario.it"}, d.EmailsForFragment("serena"))
}
