package storage

import (
	"bufio"
	"fmt"
	"os"
)

// appendAccount дописывает одну учетную запись в конец файла.
func appendAccount(path string, a account) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open user list: %w", err)
	}

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%s\n%s\n", a.name, a.password)
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("append user: %w", err)
	}
	return f.Close()
}
