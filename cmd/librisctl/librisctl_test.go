// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/platform/sec"
)

const fixtureYAML = `
authors:
  - name: Ursula K. Le Guin
    biography: "<b>Wrote</b> Earthsea."
    books:
      - title: A Wizard of Earthsea
        genre: Fantasy
        published_year: 1968
      - title: The Dispossessed
        genre: Science Fiction
        published_year: 1974
  - name: Octavia E. Butler
    books:
      - title: Kindred
        published_year: 1979
users:
  - name: Ada
    email: ada@example.com
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// run executes librisctl against the SQLite file in dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	args = append([]string{"--driver", "sqlite", "--sqlite-path", filepath.Join(dir, "libris.db")}, args...)
	err := execute(args, &stdout, &stderr)
	return stdout.String(), err
}

/*
TestLibrisctl_SeedSearchAndDesk tests seeding a fixture and working the desk.
*/
func TestLibrisctl_SeedSearchAndDesk(t *testing.T) {
	dir := t.TempDir()
	fixturePath := writeFile(t, dir, "fixture.yaml", fixtureYAML)

	out, err := run(t, dir, "seed", fixturePath)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 2 authors, 3 books, 1 users")

	out, err = run(t, dir, "search", "--author", "butler")
	require.NoError(t, err)
	assert.Contains(t, out, "Kindred")
	assert.NotContains(t, out, "Earthsea")

	out, err = run(t, dir, "borrow", "--user", "1", "--books", "1,3")
	require.NoError(t, err)
	assert.Contains(t, out, "OK")

	out, err = run(t, dir, "borrow", "--user", "1", "--books", "3")
	assert.ErrorIs(t, err, errRejected)
	assert.Contains(t, out, "ALREADY_BORROWED")

	out, err = run(t, dir, "search", "--available")
	require.NoError(t, err)
	assert.Contains(t, out, "The Dispossessed")
	assert.NotContains(t, out, "Kindred")

	out, err = run(t, dir, "return", "--user", "1", "--books", "3,2")
	require.NoError(t, err)
	assert.Contains(t, out, "not returned: [2]")

	out, err = run(t, dir, "--json", "search", "--year", "1979")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "["))
	assert.Contains(t, out, `"holder_id": null`)
}

/*
TestLibrisctl_SeedRejectsInvalidFixture tests that a bad entry stops the run.
*/
func TestLibrisctl_SeedRejectsInvalidFixture(t *testing.T) {
	dir := t.TempDir()
	fixturePath := writeFile(t, dir, "fixture.yaml", "authors:\n  - name: \"  \"\n")

	_, err := run(t, dir, "seed", fixturePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authors[0]")

	_, err = run(t, dir, "seed", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

/*
TestLibrisctl_Token tests minting a staff token that the API verifier accepts.
*/
func TestLibrisctl_Token(t *testing.T) {
	dir := t.TempDir()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	privatePath := writeFile(t, dir, "private.pem", string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})))
	publicPath := writeFile(t, dir, "public.pem", string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})))

	t.Setenv("LIBRIS_JWT_PRIVATE_KEY_PATH", privatePath)
	t.Setenv("LIBRIS_JWT_PUBLIC_KEY_PATH", publicPath)

	out, err := run(t, dir, "token", "--subject", "desk", "--role", "clerk", "--ttl", time.Hour.String())
	require.NoError(t, err)

	verifier, err := sec.NewVerifier(publicPath, "libris")
	require.NoError(t, err)
	claims, err := verifier.VerifyToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, string(sec.RoleClerk), claims.Role)

	_, err = run(t, dir, "token", "--subject", "desk", "--role", "janitor")
	assert.Error(t, err)
}
