package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle         = "app_title"
	KeyServers          = "servers"
	KeyBrowse           = "browse"
	KeyNowPlaying       = "now_playing"
	KeySettings         = "settings"
	KeyAddServer        = "add_server"
	KeyEditServer       = "edit_server"
	KeyServerName       = "server_name"
	KeyServerURL        = "server_url"
	KeyUsername         = "username"
	KeyPassword         = "password"
	KeyTestConnection   = "test_connection"
	KeyConnect          = "connect"
	KeyDisconnect       = "disconnect"
	KeyDelete           = "delete"
	KeySetDefault       = "set_default"
	KeyDefaultMark      = "default_mark"
	KeySave             = "save"
	KeyCancel           = "cancel"
	KeyConnected        = "connected"
	KeyConnecting       = "connecting"
	KeyDisconnected     = "disconnected"
	KeyConnectionOK     = "connection_ok"
	KeyConnectionFailed = "connection_failed"
	KeyNoServers        = "no_servers"
	KeyEmptyFolder      = "empty_folder"
	KeyUp               = "up"
	KeyLanguage         = "language"
	KeyShowOnlyAudio    = "show_only_audio"
	KeyStreamFallback   = "stream_fallback"
	KeyCacheSize        = "cache_size"
	KeyClearCache       = "clear_cache"
	KeyCacheCleared     = "cache_cleared"
	KeyNothingPlaying   = "nothing_playing"
	KeyResolving        = "resolving"
	KeyPlaybackFailed   = "playback_failed"
	KeyDeleteConfirm    = "delete_confirm"
	KeyNotConnected     = "not_connected"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
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
		"zh": "中文",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:         "DavPlay",
		KeyServers:          "Servers",
		KeyBrowse:           "Browse",
		KeyNowPlaying:       "Now Playing",
		KeySettings:         "Settings",
		KeyAddServer:        "Add Server",
		KeyEditServer:       "Edit Server",
		KeyServerName:       "Name",
		KeyServerURL:        "Server URL",
		KeyUsername:         "Username",
		KeyPassword:         "Password",
		KeyTestConnection:   "Test Connection",
		KeyConnect:          "Connect",
		KeyDisconnect:       "Disconnect",
		KeyDelete:           "Delete",
		KeySetDefault:       "Set as Default",
		KeyDefaultMark:      "(default)",
		KeySave:             "Save",
		KeyCancel:           "Cancel",
		KeyConnected:        "Connected",
		KeyConnecting:       "Connecting...",
		KeyDisconnected:     "Disconnected",
		KeyConnectionOK:     "Connection successful",
		KeyConnectionFailed: "Connection failed",
		KeyNoServers:        "No servers configured. Add one to get started.",
		KeyEmptyFolder:      "This folder is empty",
		KeyUp:               "Up",
		KeyLanguage:         "Language",
		KeyShowOnlyAudio:    "Show only audio files",
		KeyStreamFallback:   "Stream when caching fails",
		KeyCacheSize:        "Cache size",
		KeyClearCache:       "Clear Cache",
		KeyCacheCleared:     "Cache cleared",
		KeyNothingPlaying:   "Nothing playing",
		KeyResolving:        "Preparing track...",
		KeyPlaybackFailed:   "Playback failed",
		KeyDeleteConfirm:    "Delete this server?",
		KeyNotConnected:     "Not connected. Pick a server first.",
	}

	// Chinese texts
	l.texts["zh"] = map[string]string{
		KeyAppTitle:         "DavPlay",
		KeyServers:          "服务器",
		KeyBrowse:           "浏览",
		KeyNowPlaying:       "正在播放",
		KeySettings:         "设置",
		KeyAddServer:        "添加服务器",
		KeyEditServer:       "编辑服务器",
		KeyServerName:       "名称",
		KeyServerURL:        "服务器地址",
		KeyUsername:         "用户名",
		KeyPassword:         "密码",
		KeyTestConnection:   "测试连接",
		KeyConnect:          "连接",
		KeyDisconnect:       "断开连接",
		KeyDelete:           "删除",
		KeySetDefault:       "设为默认",
		KeyDefaultMark:      "（默认）",
		KeySave:             "保存",
		KeyCancel:           "取消",
		KeyConnected:        "已连接",
		KeyConnecting:       "连接中...",
		KeyDisconnected:     "未连接",
		KeyConnectionOK:     "连接成功",
		KeyConnectionFailed: "连接失败",
		KeyNoServers:        "尚未配置服务器，请先添加。",
		KeyEmptyFolder:      "此文件夹为空",
		KeyUp:               "上一级",
		KeyLanguage:         "语言",
		KeyShowOnlyAudio:    "只显示音频文件",
		KeyStreamFallback:   "缓存失败时直接流式播放",
		KeyCacheSize:        "缓存大小",
		KeyClearCache:       "清空缓存",
		KeyCacheCleared:     "缓存已清空",
		KeyNothingPlaying:   "暂无播放",
		KeyResolving:        "正在准备曲目...",
		KeyPlaybackFailed:   "播放失败",
		KeyDeleteConfirm:    "删除此服务器？",
		KeyNotConnected:     "未连接，请先选择服务器。",
	}
}
