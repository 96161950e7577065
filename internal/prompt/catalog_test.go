package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenderscope/tenderscope/pkg/models"
)

func TestDefault_OrderAndWindows(t *testing.T) {
	c := Default()
	require.Equal(t, models.StepOrder, c.Order())

	windows := map[string]int{
		models.StepRiskAnalysis:      WindowLarge,
		models.StepRequiredDocuments: WindowMedium,
		models.StepPenaltyClauses:    WindowMedium,
		models.StepFinancialSummary:  WindowMedium,
		models.StepTimelineAnalysis:  WindowSmall,
		models.StepExecutiveSummary:  WindowSmall,
	}
	for name, want := range windows {
		s, ok := c.Step(name)
		require.True(t, ok, name)
		assert.Equal(t, want, s.Window, name)
	}
}

func TestRender_SubstitutesDocument(t *testing.T) {
	c := Default()
	p, err := c.Render(models.StepRiskAnalysis, "madde 1: gecikme cezası günlük %0,1 uygulanır")
	require.NoError(t, err)
	assert.Contains(t, p, "gecikme cezası")
	assert.Contains(t, p, "JSON")
	assert.NotContains(t, p, "%s")
}

func TestRender_UnknownStep(t *testing.T) {
	_, err := Default().Render("unknown_step", "doc")
	require.Error(t, err)
}

func TestRender_TruncatesToWindow(t *testing.T) {
	c := Default()
	doc := strings.Repeat("a", WindowLarge+5000)
	p, err := c.Render(models.StepRiskAnalysis, doc)
	require.NoError(t, err)
	assert.Contains(t, p, strings.Repeat("a", WindowLarge))
	assert.NotContains(t, p, strings.Repeat("a", WindowLarge+1))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "", Truncate("abc", 0))

	// Never splits a multi-byte rune.
	s := "aaşartname"
	cut := Truncate(s, 3) // byte 3 lands inside 'ş'
	assert.Equal(t, "aa", cut)
	assert.True(t, strings.HasPrefix(s, cut))
}

func TestRenderExecutive_EmbedsExcerpts(t *testing.T) {
	c := Default()
	risk := models.StepResult{"toplam_risk_skoru": 65, "genel_degerlendirme": "riskli ihale"}
	fin := models.StepResult{"yaklasik_maliyet": "12.500.000 TL"}

	p, err := c.RenderExecutive("şartname metni", risk, fin)
	require.NoError(t, err)
	assert.Contains(t, p, "şartname metni")
	assert.Contains(t, p, "riskli ihale")
	assert.Contains(t, p, "12.500.000 TL")
	assert.Contains(t, p, "RİSK ANALİZİ ÇIKTISI")
	assert.Contains(t, p, "MALİ ÖZET ÇIKTISI")
}

func TestRenderExecutive_CapsExcerpts(t *testing.T) {
	c := Default()
	huge := models.StepResult{"genel_degerlendirme": strings.Repeat("x", 10000)}

	p, err := c.RenderExecutive("doc", huge, models.StepResult{})
	require.NoError(t, err)
	assert.NotContains(t, p, strings.Repeat("x", excerptCap+1))
	assert.Contains(t, p, "{}") // empty financial output renders as an empty object
}

func TestChat_AssemblesConversation(t *testing.T) {
	history := []models.ChatMessage{
		{Role: models.ChatRoleUser, Content: "Teminat oranı nedir?"},
		{Role: models.ChatRoleAssistant, Content: "Geçici teminat %3 olarak belirtilmiş."},
	}
	p := Chat("belge içeriği", history, "Peki kesin teminat?")

	assert.Contains(t, p, "belge içeriği")
	assert.Contains(t, p, "Kullanıcı: Teminat oranı nedir?")
	assert.Contains(t, p, "Asistan: Geçici teminat %3 olarak belirtilmiş.")
	assert.True(t, strings.HasSuffix(p, "Kullanıcı: Peki kesin teminat?\nAsistan:"))

	// History order is preserved.
	first := strings.Index(p, "Teminat oranı nedir?")
	second := strings.Index(p, "kesin teminat?")
	assert.Less(t, first, second)
}
