package ui

import (
	"os"
	"strings"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyAdd               = "add"
	KeyFetchInfo         = "fetch_info"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyOpenDownloads     = "open_downloads"
	KeyOutputFolder      = "output_folder"
	KeyDownloadType      = "download_type"
	KeyFormat            = "format"
	KeyQuality           = "quality"
	KeyAudioTrack        = "audio_track"
	KeyEmbedThumbnail    = "embed_thumbnail"
	KeyEmbedMetadata     = "embed_metadata"
	KeyEngineCommand     = "engine_command"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeyRetry             = "retry"
	KeyRemove            = "remove"
	KeyOpenFolder        = "open_folder"
	KeyCopyPath          = "copy_path"
	KeyPathCopied        = "path_copied"
	KeyEnterURL          = "enter_url"
	KeySettingsSaved     = "settings_saved"
	KeyDownloadStarted   = "download_started"
	KeyDownloadCompleted = "download_completed"
	KeyErrorOpeningDir   = "error_opening_folder"
	KeyInvalidURL        = "invalid_url"
	KeyPleaseEnterURL    = "please_enter_url"
	KeyFetchingInfo      = "fetching_info"
	KeyFetchFailed       = "fetch_failed"
	KeyParsingStarted    = "parsing_started"
	KeyParsingFailed     = "parsing_failed"
	KeyPlaylistParsed    = "playlist_parsed"
	KeyStats             = "stats"
	KeyVideo             = "video"
	KeyAudio             = "audio"
	KeyFilterAll         = "filter_all"
	KeyFilterActive      = "filter_active"
	KeyFilterCompleted   = "filter_completed"
	KeyFilterFailed      = "filter_failed"
	KeyStatusQueued      = "status_queued"
	KeyStatusDownloading = "status_downloading"
	KeyStatusCompleted   = "status_completed"
	KeyStatusFailed      = "status_failed"
)

// DefaultLanguage is used when the system language has no translation
const DefaultLanguage = "en"

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: DefaultLanguage,
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. "system" picks the language from
// LANG, falling back to English.
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = systemLanguage()
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
		return
	}
	l.currentLanguage = DefaultLanguage
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	if texts, exists := l.texts[DefaultLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// systemLanguage reads the user's locale from the environment
func systemLanguage() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return languageFromLocale(v)
		}
	}
	return DefaultLanguage
}

// languageFromLocale extracts "pt" from values like "pt_BR.UTF-8"
func languageFromLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "_.-@"); i >= 0 {
		locale = locale[:i]
	}
	return locale
}

func initializeEnglish() map[string]string {
	return map[string]string{
		KeyAppTitle:          "YT Queue",
		KeyAdd:               "Add",
		KeyFetchInfo:         "Fetch info",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyOpenDownloads:     "Open downloads folder",
		KeyOutputFolder:      "Output folder",
		KeyDownloadType:      "Download type",
		KeyFormat:            "Format",
		KeyQuality:           "Quality",
		KeyAudioTrack:        "Audio track",
		KeyEmbedThumbnail:    "Embed thumbnail",
		KeyEmbedMetadata:     "Embed metadata",
		KeyEngineCommand:     "Engine command",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeyRetry:             "Retry",
		KeyRemove:            "Remove",
		KeyOpenFolder:        "Open folder",
		KeyCopyPath:          "Copy path",
		KeyPathCopied:        "Path copied to clipboard",
		KeyEnterURL:          "Enter video URL (https://youtube.com/watch?v=...)",
		KeySettingsSaved:     "Settings saved",
		KeyDownloadStarted:   "Download started",
		KeyDownloadCompleted: "Download completed",
		KeyErrorOpeningDir:   "Error opening folder",
		KeyInvalidURL:        "Invalid URL",
		KeyPleaseEnterURL:    "Please enter a URL",
		KeyFetchingInfo:      "Fetching video info...",
		KeyFetchFailed:       "Could not fetch video info",
		KeyParsingStarted:    "Reading playlist...",
		KeyParsingFailed:     "Playlist parsing failed",
		KeyPlaylistParsed:    "Playlist added",
		KeyStats:             "%d active • %d completed",
		KeyVideo:             "Video",
		KeyAudio:             "Audio",
		KeyFilterAll:         "All",
		KeyFilterActive:      "Active",
		KeyFilterCompleted:   "Completed",
		KeyFilterFailed:      "Failed",
		KeyStatusQueued:      "Queued",
		KeyStatusDownloading: "Downloading",
		KeyStatusCompleted:   "Completed",
		KeyStatusFailed:      "Failed",
	}
}

func initializeRussian() map[string]string {
	return map[string]string{
		KeyAppTitle:          "YT Очередь",
		KeyAdd:               "Добавить",
		KeyFetchInfo:         "Получить данные",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyOpenDownloads:     "Открыть папку загрузок",
		KeyOutputFolder:      "Папка загрузки",
		KeyDownloadType:      "Тип загрузки",
		KeyFormat:            "Формат",
		KeyQuality:           "Качество",
		KeyAudioTrack:        "Аудиодорожка",
		KeyEmbedThumbnail:    "Встроить обложку",
		KeyEmbedMetadata:     "Встроить метаданные",
		KeyEngineCommand:     "Команда движка",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeyRetry:             "Повторить",
		KeyRemove:            "Удалить",
		KeyOpenFolder:        "Открыть папку",
		KeyCopyPath:          "Копировать путь",
		KeyPathCopied:        "Путь скопирован",
		KeyEnterURL:          "Введите URL видео (https://youtube.com/watch?v=...)",
		KeySettingsSaved:     "Настройки сохранены",
		KeyDownloadStarted:   "Загрузка начата",
		KeyDownloadCompleted: "Загрузка завершена",
		KeyErrorOpeningDir:   "Ошибка открытия папки",
		KeyInvalidURL:        "Неверный URL",
		KeyPleaseEnterURL:    "Пожалуйста, введите URL",
		KeyFetchingInfo:      "Получение данных о видео...",
		KeyFetchFailed:       "Не удалось получить данные о видео",
		KeyParsingStarted:    "Чтение плейлиста...",
		KeyParsingFailed:     "Ошибка разбора плейлиста",
		KeyPlaylistParsed:    "Плейлист добавлен",
		KeyStats:             "%d активных • %d завершено",
		KeyVideo:             "Видео",
		KeyAudio:             "Аудио",
		KeyFilterAll:         "Все",
		KeyFilterActive:      "Активные",
		KeyFilterCompleted:   "Завершённые",
		KeyFilterFailed:      "Ошибки",
		KeyStatusQueued:      "В очереди",
		KeyStatusDownloading: "Загрузка",
		KeyStatusCompleted:   "Готово",
		KeyStatusFailed:      "Ошибка",
	}
}

func initializePortuguese() map[string]string {
	return map[string]string{
		KeyAppTitle:          "YT Queue",
		KeyAdd:               "Adicionar",
		KeyFetchInfo:         "Obter informações",
		KeySettings:          "Configurações",
		KeyFile:              "Arquivo",
		KeyLanguage:          "Idioma",
		KeyOpenDownloads:     "Abrir pasta de downloads",
		KeyOutputFolder:      "Pasta de saída",
		KeyDownloadType:      "Tipo de download",
		KeyFormat:            "Formato",
		KeyQuality:           "Qualidade",
		KeyAudioTrack:        "Faixa de áudio",
		KeyEmbedThumbnail:    "Incorporar miniatura",
		KeyEmbedMetadata:     "Incorporar metadados",
		KeyEngineCommand:     "Comando do motor",
		KeySave:              "Salvar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Navegar",
		KeyRetry:             "Repetir",
		KeyRemove:            "Remover",
		KeyOpenFolder:        "Abrir pasta",
		KeyCopyPath:          "Copiar caminho",
		KeyPathCopied:        "Caminho copiado",
		KeyEnterURL:          "Digite a URL do vídeo (https://youtube.com/watch?v=...)",
		KeySettingsSaved:     "Configurações salvas",
		KeyDownloadStarted:   "Download iniciado",
		KeyDownloadCompleted: "Download concluído",
		KeyErrorOpeningDir:   "Erro ao abrir pasta",
		KeyInvalidURL:        "URL inválida",
		KeyPleaseEnterURL:    "Por favor, digite uma URL",
		KeyFetchingInfo:      "Obtendo informações do vídeo...",
		KeyFetchFailed:       "Não foi possível obter informações do vídeo",
		KeyParsingStarted:    "Lendo playlist...",
		KeyParsingFailed:     "Falha ao ler playlist",
		KeyPlaylistParsed:    "Playlist adicionada",
		KeyStats:             "%d ativos • %d concluídos",
		KeyVideo:             "Vídeo",
		KeyAudio:             "Áudio",
		KeyFilterAll:         "Todos",
		KeyFilterActive:      "Ativos",
		KeyFilterCompleted:   "Concluídos",
		KeyFilterFailed:      "Falhas",
		KeyStatusQueued:      "Na fila",
		KeyStatusDownloading: "Baixando",
		KeyStatusCompleted:   "Concluído",
		KeyStatusFailed:      "Falhou",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = initializeEnglish()
	l.texts["ru"] = initializeRussian()
	l.texts["pt"] = initializePortuguese()
}
