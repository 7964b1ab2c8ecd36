// Package credentials resolves named secrets from the process environment
// or a local key=value file, with environment precedence.
package credentials

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Source resolves a named secret. A missing credential is not an error:
// ok is false and callers are expected to skip dependent work.
type Source interface {
	Resolve(key string) (value string, ok bool, err error)
}

// Resolver checks the process environment first, then an optional
// godotenv-style file. Values are held in memory only and never logged.
type Resolver struct {
	lookupEnv func(string) (string, bool)
	filePath  string

	fileValues map[string]string
	fileLoaded bool
}

// NewResolver creates a Resolver. lookupEnv is usually os.LookupEnv;
// filePath may be empty to disable the file source.
func NewResolver(lookupEnv func(string) (string, bool), filePath string) *Resolver {
	return &Resolver{lookupEnv: lookupEnv, filePath: filePath}
}

// Resolve returns the value for key. Environment wins over the file.
// Empty values count as absent. A present but unreadable or malformed
// credential file is an error.
func (r *Resolver) Resolve(key string) (string, bool, error) {
	if v, ok := r.lookupEnv(key); ok && v != "" {
		return v, true, nil
	}

	values, err := r.fileEntries()
	if err != nil {
		return "", false, err
	}

	if v, ok := values[key]; ok && v != "" {
		return v, true, nil
	}
	return "", false, nil
}

// Check probes the credential file so a malformed file aborts the run
// before any step executes. A missing file is fine.
func (r *Resolver) Check() error {
	_, err := r.fileEntries()
	return err
}

func (r *Resolver) fileEntries() (map[string]string, error) {
	if r.fileLoaded {
		return r.fileValues, nil
	}
	if r.filePath == "" {
		r.fileLoaded = true
		return nil, nil
	}

	values, err := godotenv.Read(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			r.fileLoaded = true
			return nil, nil
		}
		return nil, fmt.Errorf("reading credential file %s: %w", r.filePath, err)
	}

	r.fileValues = values
	r.fileLoaded = true
	return r.fileValues, nil
}
