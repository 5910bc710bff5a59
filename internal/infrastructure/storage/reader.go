package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Load читает файл учетных записей. Отсутствующий файл - пустой список.
// Дубликат имени или имя без пароля портят весь файл: список сбрасывается в пустой
// и возвращается ошибка.
func (s *UserStore) Load() error {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("User list not found, starting empty")
			return nil
		}
		return fmt.Errorf("open user list: %w", err)
	}
	defer f.Close()

	accounts, err := readAccounts(f)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = s.accounts[:0]
	s.index = make(map[string]int)

	if err != nil {
		s.log.WithError(err).Error("Failed to load users, try to delete the user list")
		return err
	}
	for i, a := range accounts {
		s.index[a.name] = i
	}
	s.accounts = accounts
	s.log.WithField("count", len(accounts)).Info("Users loaded")
	return nil
}

// readAccounts разбирает пары строк "имя", "пароль". Читается не больше MaxUsers пар.
func readAccounts(r io.Reader) ([]account, error) {
	sc := bufio.NewScanner(r)
	seen := make(map[string]struct{})
	var out []account

	for len(out) < MaxUsers && sc.Scan() {
		name := sc.Text()
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateUser, name)
		}
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %q", ErrCorruptUserList, name)
		}
		seen[name] = struct{}{}
		out = append(out, account{name: name, password: sc.Text()})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read user list: %w", err)
	}
	return out, nil
}
