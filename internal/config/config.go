package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	pcerrors "github.com/zhubert/chatmodal/internal/errors"
)

// DefaultStorageKey is the storage key holding the active session id.
const DefaultStorageKey = "chatbot_session_id"

const (
	DefaultPageSize  = 10
	DefaultStaleTime = 5 * time.Minute
	DefaultRetry     = 1
	DefaultTimeout   = 30 * time.Second
)

// API holds the four backend endpoints the widget talks to.
type API struct {
	ChatHistoryURL string        `yaml:"chat_history_url"`
	ChatListURL    string        `yaml:"chat_list_url"`
	DeleteURL      string        `yaml:"delete_url"`
	SendMessageURL string        `yaml:"send_message_url"`
	Timeout        time.Duration `yaml:"timeout"`
}

// History controls how transcript pages are loaded.
type History struct {
	PageSize int `yaml:"page_size"`
	// Incremental loads older pages when the transcript is scrolled to the
	// top. When false only the first page of each session is shown.
	Incremental bool `yaml:"incremental"`
}

// Cache controls the shared query cache.
type Cache struct {
	StaleTime time.Duration `yaml:"stale_time"`
	Retry     int           `yaml:"retry"`
}

// Options is the host-facing configuration of the widget.
type Options struct {
	API        API     `yaml:"api"`
	UserID     int     `yaml:"user_id"`
	SessionID  string  `yaml:"session_id,omitempty"`
	StorageKey string  `yaml:"storage_key"`
	History    History `yaml:"history"`
	Cache      Cache   `yaml:"cache"`

	Theme                string `yaml:"theme,omitempty"`
	NotificationsEnabled bool   `yaml:"notifications"`
	ExportDir            string `yaml:"export_dir,omitempty"`

	filePath string
}

// Default returns Options with every optional field populated.
func Default() *Options {
	return &Options{
		API:        API{Timeout: DefaultTimeout},
		StorageKey: DefaultStorageKey,
		History:    History{PageSize: DefaultPageSize, Incremental: true},
		Cache:      Cache{StaleTime: DefaultStaleTime, Retry: DefaultRetry},
	}
}

// Dir returns the chatmodal data directory. CHATMODAL_HOME overrides the
// default of ~/.chatmodal.
func Dir() (string, error) {
	if dir := os.Getenv("CHATMODAL_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".chatmodal"), nil
}

// Path returns the path to the config file
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file (if any) and then applies environment
// overrides. The result is not validated; flags may still change it.
func Load() (*Options, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit config file path.
func LoadFrom(path string) (*Options, error) {
	opts := Default()
	opts.filePath = path

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, pcerrors.ConfigLoadFailed(path, err)
	default:
		if err := yaml.Unmarshal(data, opts); err != nil {
			return nil, pcerrors.ConfigLoadFailed(path, err)
		}
	}

	opts.ApplyEnv()
	opts.ensureDefaults()
	return opts, nil
}

// LoadDotEnv loads a .env file from the working directory into the process
// environment. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overrides fields from CHATMODAL_* environment variables.
func (o *Options) ApplyEnv() {
	if base := getEnv("CHATMODAL_API_BASE", ""); base != "" {
		o.SetBaseURL(base)
	}
	o.API.ChatHistoryURL = getEnv("CHATMODAL_HISTORY_URL", o.API.ChatHistoryURL)
	o.API.ChatListURL = getEnv("CHATMODAL_LIST_URL", o.API.ChatListURL)
	o.API.DeleteURL = getEnv("CHATMODAL_DELETE_URL", o.API.DeleteURL)
	o.API.SendMessageURL = getEnv("CHATMODAL_SEND_URL", o.API.SendMessageURL)
	o.API.Timeout = getEnvAsDuration("CHATMODAL_TIMEOUT", o.API.Timeout)

	o.UserID = getEnvAsInt("CHATMODAL_USER_ID", o.UserID)
	o.SessionID = getEnv("CHATMODAL_SESSION_ID", o.SessionID)
	o.StorageKey = getEnv("CHATMODAL_STORAGE_KEY", o.StorageKey)
	o.History.PageSize = getEnvAsInt("CHATMODAL_PAGE_SIZE", o.History.PageSize)
	o.Theme = getEnv("CHATMODAL_THEME", o.Theme)
	o.ExportDir = getEnv("CHATMODAL_EXPORT_DIR", o.ExportDir)
}

// SetBaseURL points all four endpoints at the conventional routes below
// base, as served by the demo backend.
func (o *Options) SetBaseURL(base string) {
	base = strings.TrimRight(base, "/")
	o.API.ChatHistoryURL = base + "/historial"
	o.API.ChatListURL = base + "/conversaciones"
	o.API.DeleteURL = base + "/conversaciones"
	o.API.SendMessageURL = base + "/chat"
}

func (o *Options) ensureDefaults() {
	d := Default()
	if o.API.Timeout <= 0 {
		o.API.Timeout = d.API.Timeout
	}
	if o.StorageKey == "" {
		o.StorageKey = d.StorageKey
	}
	if o.History.PageSize <= 0 {
		o.History.PageSize = d.History.PageSize
	}
	if o.Cache.StaleTime <= 0 {
		o.Cache.StaleTime = d.Cache.StaleTime
	}
	if o.Cache.Retry < 0 {
		o.Cache.Retry = 0
	}
}

// Validate checks that the widget can be mounted with these options.
func (o *Options) Validate() error {
	endpoints := []struct {
		name, value string
	}{
		{"chat history URL", o.API.ChatHistoryURL},
		{"chat list URL", o.API.ChatListURL},
		{"delete URL", o.API.DeleteURL},
		{"send message URL", o.API.SendMessageURL},
	}
	for _, ep := range endpoints {
		if ep.value == "" {
			return pcerrors.ConfigInvalid(ep.name + " is required")
		}
		u, err := url.Parse(ep.value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return pcerrors.ConfigInvalid(fmt.Sprintf("%s %q is not an http(s) URL", ep.name, ep.value))
		}
	}
	if o.UserID <= 0 {
		return pcerrors.ConfigInvalid("user id must be a positive integer")
	}
	if o.History.PageSize <= 0 {
		return pcerrors.ConfigInvalid("history page size must be positive")
	}
	if o.StorageKey == "" {
		return pcerrors.ConfigInvalid("storage key must not be empty")
	}
	return nil
}

// Save writes the options to the file they were loaded from, creating the
// directory when needed.
func (o *Options) Save() error {
	path := o.filePath
	if path == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return pcerrors.ConfigSaveFailed(path, err)
	}
	data, err := yaml.Marshal(o)
	if err != nil {
		return pcerrors.ConfigSaveFailed(path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return pcerrors.ConfigSaveFailed(path, err)
	}
	return nil
}

// FilePath returns the config file these options were loaded from.
func (o *Options) FilePath() string {
	return o.filePath
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
