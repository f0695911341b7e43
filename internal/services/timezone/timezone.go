// Package timezone отвечает за работу с часовыми поясами пользователей.
package timezone

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Resolve возвращает локацию по имени из tz database.
// Пустое или нераспознанное имя — всегда UTC, без ошибки:
// у пользователя без профиля расписание показывается в UTC.
func Resolve(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsValid сообщает, распознаётся ли идентификатор часового пояса.
func IsValid(name string) bool {
	if name == "" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}

var (
	namesOnce sync.Once
	names     []string
)

// Names возвращает отсортированный список имён зон из системной tz database.
// "UTC" присутствует всегда, даже если zoneinfo на машине не нашлась.
func Names() []string {
	namesOnce.Do(func() {
		names = loadNames()
	})
	return names
}

var zoneDirs = []string{
	"/usr/share/zoneinfo",
	"/usr/share/lib/zoneinfo",
	"/usr/lib/locale/TZ",
}

func loadNames() []string {
	seen := map[string]bool{"UTC": true}

	for _, dir := range zoneDirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			name, err := filepath.Rel(dir, path)
			if err != nil {
				return nil
			}
			name = filepath.ToSlash(name)
			if !validZoneName(name) {
				return nil
			}
			seen[name] = true
			return nil
		})
		break
	}

	result := make([]string, 0, len(seen))
	for name := range seen {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// validZoneName отсекает служебные файлы zoneinfo (tab-файлы, posixrules и т.п.).
func validZoneName(name string) bool {
	if name == "" || strings.HasPrefix(name, "posix/") || strings.HasPrefix(name, "right/") {
		return false
	}
	if strings.Contains(name, ".") {
		return false
	}
	first := name[0]
	return first >= 'A' && first <= 'Z'
}
