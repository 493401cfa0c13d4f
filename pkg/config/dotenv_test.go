// Copyright 2025 Pattreeya Tanisaro
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDotEnv_MissingFilesAreNotAnError(t *testing.T) {
	chdir(t, t.TempDir())
	assert.NoError(t, LoadDotEnv())
	assert.NoError(t, LoadDotEnv("nope.env"))
}

func TestLoadDotEnv_LoadsValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("DOTENV_TEST_ONLY_VAR=from-dotenv\n"), 0o644))
	chdir(t, dir)
	t.Setenv("DOTENV_TEST_ONLY_VAR", "")
	require.NoError(t, os.Unsetenv("DOTENV_TEST_ONLY_VAR"))

	require.NoError(t, LoadDotEnv())
	assert.Equal(t, "from-dotenv", os.Getenv("DOTENV_TEST_ONLY_VAR"))
}

func TestLoadDotEnv_DoesNotOverrideProcessEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("DOTENV_TEST_KEEP_VAR=from-dotenv\n"), 0o644))
	chdir(t, dir)
	t.Setenv("DOTENV_TEST_KEEP_VAR", "from-process")

	require.NoError(t, LoadDotEnv())
	assert.Equal(t, "from-process", os.Getenv("DOTENV_TEST_KEEP_VAR"))
}

func TestLoadDotEnv_LocalWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("DOTENV_TEST_ORDER_VAR=base\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"),
		[]byte("DOTENV_TEST_ORDER_VAR=local\n"), 0o644))
	chdir(t, dir)
	t.Setenv("DOTENV_TEST_ORDER_VAR", "")
	require.NoError(t, os.Unsetenv("DOTENV_TEST_ORDER_VAR"))

	require.NoError(t, LoadDotEnv())
	assert.Equal(t, "local", os.Getenv("DOTENV_TEST_ORDER_VAR"))
}
