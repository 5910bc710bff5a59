package storage

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"shooter-server/pkg/logger"
)

// MaxUsers - емкость списка учетных записей.
const MaxUsers = 100

var (
	ErrAlreadyRegistered = errors.New("user already registered")
	ErrUserListFull      = errors.New("user list is full")
	ErrDuplicateUser     = errors.New("duplicate user in user list")
	ErrCorruptUserList   = errors.New("user without password in user list")
	ErrUnregistered      = errors.New("user is not registered")
	ErrWrongPassword     = errors.New("wrong password")
)

type account struct {
	name     string
	password string
}

// UserStore - учетные записи в плоском файле: имя и пароль на соседних строках.
// Новые записи дописываются в конец файла.
type UserStore struct {
	mu       sync.Mutex
	path     string
	accounts []account
	index    map[string]int

	log *logrus.Entry
}

func NewUserStore(path string) *UserStore {
	return &UserStore{
		path:  path,
		index: make(map[string]int),
		log:   logger.Component("storage").WithField("file", path),
	}
}

// Len - количество загруженных учетных записей.
func (s *UserStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

// Register добавляет учетную запись и дописывает ее в файл.
func (s *UserStore) Register(name, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[name]; ok {
		return ErrAlreadyRegistered
	}
	if len(s.accounts) >= MaxUsers {
		return ErrUserListFull
	}
	if err := appendAccount(s.path, account{name: name, password: password}); err != nil {
		return err
	}

	s.index[name] = len(s.accounts)
	s.accounts = append(s.accounts, account{name: name, password: password})
	s.log.WithField("user", name).Info("User saved")
	return nil
}

// Check сверяет имя и пароль.
func (s *UserStore) Check(name, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[name]
	if !ok {
		return ErrUnregistered
	}
	if s.accounts[i].password != password {
		return ErrWrongPassword
	}
	return nil
}
