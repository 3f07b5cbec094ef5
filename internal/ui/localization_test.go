package ui

import "testing"

func TestLocalization_SetLanguage(t *testing.T) {
	l := NewLocalization()

	l.SetLanguage("ru")
	if l.GetCurrentLanguage() != "ru" || l.GetText(KeyRetry) != "Повторить" {
		t.Errorf("unexpected russian text %q", l.GetText(KeyRetry))
	}

	l.SetLanguage("xx")
	if l.GetCurrentLanguage() != DefaultLanguage {
		t.Errorf("unknown language should fall back to %s, got %s", DefaultLanguage, l.GetCurrentLanguage())
	}

	if got := l.GetText("missing_key"); got != "missing_key" {
		t.Errorf("missing key should return itself, got %q", got)
	}
}

func TestLocalization_SystemLanguage(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "pt_BR.UTF-8")

	l := NewLocalization()
	l.SetLanguage("system")
	if l.GetCurrentLanguage() != "pt" {
		t.Errorf("expected pt from LANG, got %s", l.GetCurrentLanguage())
	}
}

func TestLocalization_AllLanguagesComplete(t *testing.T) {
	l := NewLocalization()
	for lang, texts := range l.texts {
		for key := range l.texts[DefaultLanguage] {
			if _, ok := texts[key]; !ok {
				t.Errorf("%s is missing %s", lang, key)
			}
		}
	}
}

func TestLanguageFromLocale(t *testing.T) {
	tests := map[string]string{
		"en_US.UTF-8": "en",
		"ru_RU":       "ru",
		"pt-BR":       "pt",
		"C":           "c",
		"":            "",
	}
	for in, expected := range tests {
		if got := languageFromLocale(in); got != expected {
			t.Errorf("languageFromLocale(%q) = %q, expected %q", in, got, expected)
		}
	}
}
