package accounts

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const ledgerExt = ".jsonl"

// FindAccount returns the unique account whose ID is query.
func FindAccount(path, query string) (*Account, error) {
	if query == "" {
		return nil, fmt.Errorf("missing account name")
	}
	accounts, err := FindAccounts(path, query)
	if err != nil {
		return nil, err
	}
	switch len(accounts) {
	case 0:
		return nil, fmt.Errorf("could not find account %q: %w", query, fs.ErrNotExist)
	case 1:
		return accounts[0], nil
	default:
		return nil, fmt.Errorf("multiple accounts found for %q", query)
	}
}

// FindAccounts discovers and loads account ledgers from a given folder.
// An account ID is its ledger relative path, without the .jsonl extension
// (e.g. "john/bnp"). If query is empty, all ledgers are loaded, otherwise
// only the one whose ID is query.
//
// Accounts are returned in lexical order of their path.
func FindAccounts(path, query string) ([]*Account, error) {
	var accounts []*Account
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ledgerExt) {
			return nil
		}
		relPath, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		id := filepath.ToSlash(strings.TrimSuffix(relPath, ledgerExt))
		if query != "" && id != query {
			return nil
		}
		account, err := loadAccountFile(id, p)
		if err != nil {
			// fail fast, a partial set of accounts would give a wrong total.
			return err
		}
		accounts = append(accounts, account)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// loadAccountFile opens and decodes a single ledger file.
func loadAccountFile(id, fullPath string) (*Account, error) {
	f, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", fullPath, err)
	}
	defer f.Close()

	account, err := DecodeAccount(id, f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", fullPath, err)
	}
	return account, nil
}

// LedgerFile returns the ledger file of account id within path.
func LedgerFile(path, id string) string {
	return filepath.Join(path, filepath.FromSlash(id)+ledgerExt)
}

// SaveAccount saves an account to its ledger file within path.
// An account "john/bnp" is saved to "<path>/john/bnp.jsonl".
func SaveAccount(path string, a *Account) error {
	if a.ID == "" {
		return fmt.Errorf("cannot save account with an empty name")
	}
	filePath := LedgerFile(path, a.ID)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("could not create directory for account %q: %w", filePath, err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("error opening ledger file %q for writing: %w", filePath, err)
	}
	defer file.Close()

	if err := EncodeAccount(file, a); err != nil {
		return fmt.Errorf("could not save account %q: %w", a.ID, err)
	}
	return nil
}
