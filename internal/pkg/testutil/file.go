package testutil

import (
	"fmt"
	"os"
	"time"
)

// CreateTestFile create a test files
func CreateTestFile(fileName string, content []byte) error {
	err := os.WriteFile(fileName, content, 0600)
	if err != nil {
		return fmt.Errorf("failed to create test file: %w", err)
	}
	return nil
}

// CreateTestFileWithMtime creates a test file and pins its
// modification time, for code that picks files by recency.
func CreateTestFileWithMtime(fileName string, content []byte, mtime time.Time) error {
	if err := CreateTestFile(fileName, content); err != nil {
		return err
	}
	if err := os.Chtimes(fileName, mtime, mtime); err != nil {
		return fmt.Errorf("failed to set test file mtime: %w", err)
	}
	return nil
}
