package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	cryptoDomain "github.com/robopass/robopass/internal/crypto/domain"
	cryptoService "github.com/robopass/robopass/internal/crypto/service"
	apperrors "github.com/robopass/robopass/internal/errors"
	vaultDomain "github.com/robopass/robopass/internal/vault/domain"
)

// Clipboard fields accepted by CopyToClipboard.
const (
	FieldUsername = "username"
	FieldPassword = "password"
)

// vaultUseCase implements VaultUseCase.
//
// The session slot is a single mutex-guarded pointer: commands acquire the
// mutex exclusively before touching session state and release it before
// returning, so operations are totally ordered and the core presents a
// single-threaded logical model to concurrent callers.
type vaultUseCase struct {
	mu      sync.Mutex
	session *vaultDomain.Session

	repo       VaultRepository
	codec      VaultCodec
	blobCipher cryptoService.BlobCipher
	keyWrapper cryptoService.KeyWrapper
	clipboard  Clipboard
	logger     *slog.Logger
}

// NewVaultUseCase creates the vault command surface with an empty session slot.
func NewVaultUseCase(
	repo VaultRepository,
	codec VaultCodec,
	blobCipher cryptoService.BlobCipher,
	keyWrapper cryptoService.KeyWrapper,
	clipboard Clipboard,
	logger *slog.Logger,
) VaultUseCase {
	return &vaultUseCase{
		repo:       repo,
		codec:      codec,
		blobCipher: blobCipher,
		keyWrapper: keyWrapper,
		clipboard:  clipboard,
		logger:     logger,
	}
}

// CreateAccount creates a fresh vault file for username and installs a session.
//
// The master key is derived from the passphrase, a random data key is wrapped
// under it, and an empty vault is persisted before the session is installed.
// The master key is a transient local value and is zeroized before returning.
func (u *vaultUseCase) CreateAccount(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return vaultDomain.ErrInvalidKeeper
	}
	if !validUsername(username) {
		return vaultDomain.ErrInvalidKeeper
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.session != nil {
		u.logger.Warn("create account rejected, session already installed")
		return vaultDomain.ErrUnexpected
	}

	path := u.repo.VaultPath(username)
	if u.repo.Exists(path) {
		return vaultDomain.ErrUsernameTaken
	}

	masterKey := cryptoService.DeriveMasterKey([]byte(password), []byte(username))
	defer cryptoDomain.Zero(masterKey)

	dataKey, err := cryptoService.RandomBytes(cryptoDomain.KeySize)
	if err != nil {
		return u.unexpected("generate data key", err)
	}

	wrappedKey, nonce, err := u.keyWrapper.Wrap(masterKey, dataKey)
	if err != nil {
		cryptoDomain.Zero(dataKey)
		return u.unexpected("wrap data key", err)
	}

	session := &vaultDomain.Session{
		FilePath:   path,
		Nonce:      nonce,
		WrappedKey: wrappedKey,
		DataKey:    dataKey,
		Vault:      vaultDomain.NewVault(username),
	}

	if err := u.persist(session); err != nil {
		session.Close()
		return err
	}

	u.session = session
	u.logger.Info("account created", slog.String("username", username))
	return nil
}

// Login opens the vault file for username and installs a session.
//
// Any failure along the unwrap/decrypt/deserialize chain is coalesced to
// ErrInvalidKeeper so callers cannot tell whether the passphrase or the file
// was wrong; a truncated file or an in-file username mismatch is ErrInvalidReader.
func (u *vaultUseCase) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return vaultDomain.ErrInvalidKeeper
	}
	if !validUsername(username) {
		return vaultDomain.ErrInvalidKeeper
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.session != nil {
		u.logger.Warn("login rejected, session already installed")
		return vaultDomain.ErrUnexpected
	}

	path := u.repo.VaultPath(username)
	if !u.repo.Exists(path) {
		return vaultDomain.ErrInvalidKeeper
	}

	envelope, err := u.repo.Read(path)
	switch {
	case err == nil:
	case apperrors.Is(err, vaultDomain.ErrInvalidReader):
		return vaultDomain.ErrInvalidReader
	case apperrors.Is(err, apperrors.ErrNotFound):
		return vaultDomain.ErrInvalidKeeper
	default:
		return u.unexpected("read vault file", err)
	}

	masterKey := cryptoService.DeriveMasterKey([]byte(password), []byte(username))
	defer cryptoDomain.Zero(masterKey)

	dataKey, err := u.keyWrapper.Unwrap(masterKey, envelope.WrappedKey, envelope.Nonce)
	if err != nil {
		return vaultDomain.ErrInvalidKeeper
	}

	plaintext, err := u.blobCipher.Open(envelope.Blob, dataKey)
	if err != nil {
		cryptoDomain.Zero(dataKey)
		return vaultDomain.ErrInvalidKeeper
	}

	vault, err := u.codec.Decode(plaintext)
	if err != nil {
		cryptoDomain.Zero(dataKey)
		return vaultDomain.ErrInvalidKeeper
	}

	if vault.Username != username {
		cryptoDomain.Zero(dataKey)
		return vaultDomain.ErrInvalidReader
	}

	u.session = &vaultDomain.Session{
		FilePath:   path,
		Nonce:      envelope.Nonce,
		WrappedKey: envelope.WrappedKey,
		DataKey:    dataKey,
		Vault:      vault,
	}
	u.logger.Info("login succeeded", slog.String("username", username))
	return nil
}

// Logout drops the session and zeroizes its key material. Always succeeds.
func (u *vaultUseCase) Logout(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.session.Close()
	u.session = nil
	u.logger.Info("logged out")
	return nil
}

// CanUserAccess reports whether a session is installed.
func (u *vaultUseCase) CanUserAccess(ctx context.Context) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.session != nil, nil
}

// AddCredential inserts a credential under a fresh UUIDv4 id and re-persists.
func (u *vaultUseCase) AddCredential(ctx context.Context, url, username, password string) (string, error) {
	if url == "" || username == "" || password == "" {
		return "", vaultDomain.ErrInvalidReader
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	session, err := u.requireSession()
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	session.Vault.Add(id, vaultDomain.Credential{URL: url, Username: username, Password: password})
	if err := u.persist(session); err != nil {
		return "", err
	}
	u.logger.Info("credential added")
	return id, nil
}

// UpdateCredential overwrites the credential stored under id and re-persists.
// An unknown id leaves the vault unchanged but still re-persists and returns true.
func (u *vaultUseCase) UpdateCredential(ctx context.Context, id, url, username, password string) (bool, error) {
	if id == "" || url == "" || username == "" || password == "" {
		return false, vaultDomain.ErrInvalidReader
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	session, err := u.requireSession()
	if err != nil {
		return false, err
	}

	if !session.Vault.Update(id, vaultDomain.Credential{URL: url, Username: username, Password: password}) {
		u.logger.Debug("update on unknown credential id")
	}
	if err := u.persist(session); err != nil {
		return false, err
	}
	u.logger.Info("credential updated")
	return true, nil
}

// RemoveCredential deletes the credential stored under id and re-persists.
func (u *vaultUseCase) RemoveCredential(ctx context.Context, id string) error {
	if id == "" {
		return vaultDomain.ErrInvalidReader
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	session, err := u.requireSession()
	if err != nil {
		return err
	}

	if !session.Vault.Remove(id) {
		return vaultDomain.ErrInvalidParameter
	}
	if err := u.persist(session); err != nil {
		return err
	}
	u.logger.Info("credential removed")
	return nil
}

// ListCredentials returns all credentials sorted by URL in ascending byte order.
func (u *vaultUseCase) ListCredentials(ctx context.Context) ([]vaultDomain.CredentialEntry, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	session, err := u.requireSession()
	if err != nil {
		return nil, err
	}

	return session.Vault.SortedEntries(), nil
}

// CopyToClipboard copies the named field of the credential stored under id to
// the system clipboard. Clipboard failure is ErrUnexpected.
func (u *vaultUseCase) CopyToClipboard(ctx context.Context, id, field string) error {
	if id == "" || field == "" {
		return vaultDomain.ErrInvalidReader
	}
	if field != FieldUsername && field != FieldPassword {
		return vaultDomain.ErrInvalidParameter
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	session, err := u.requireSession()
	if err != nil {
		return err
	}

	credential, ok := session.Vault.Entry(id)
	if !ok {
		return vaultDomain.ErrInvalidParameter
	}

	text := credential.Username
	if field == FieldPassword {
		text = credential.Password
	}
	if err := u.clipboard.SetText(text); err != nil {
		return u.unexpected("set clipboard", err)
	}
	return nil
}

// GeneratePassword returns a fresh random password at the default length.
// It does not require a session.
func (u *vaultUseCase) GeneratePassword(ctx context.Context) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	password, err := cryptoService.GeneratePassword(
		cryptoService.DefaultPasswordAlphabet,
		cryptoService.DefaultPasswordLength,
	)
	switch {
	case err == nil:
		return password, nil
	case apperrors.Is(err, cryptoDomain.ErrInvalidPasswordLength):
		return "", vaultDomain.ErrInvalidParameter
	default:
		return "", u.unexpected("generate password", err)
	}
}

// requireSession returns the installed session or ErrInvalidReader.
// Callers must hold the mutex.
func (u *vaultUseCase) requireSession() (*vaultDomain.Session, error) {
	if u.session == nil {
		return nil, vaultDomain.ErrInvalidReader
	}
	return u.session, nil
}

// persist re-encrypts the session's vault and replaces the whole file.
// Callers must hold the mutex. On failure the in-memory vault keeps its
// mutated state; only the error surfaces.
func (u *vaultUseCase) persist(session *vaultDomain.Session) error {
	plaintext, err := u.codec.Encode(session.Vault)
	if err != nil {
		return u.unexpected("encode vault", err)
	}

	blob, err := u.blobCipher.Seal(plaintext, session.DataKey)
	if err != nil {
		return u.unexpected("seal vault blob", err)
	}

	envelope := &vaultDomain.Envelope{
		Nonce:      session.Nonce,
		WrappedKey: session.WrappedKey,
		Blob:       blob,
	}
	if err := u.repo.Write(session.FilePath, envelope); err != nil {
		return u.unexpected("write vault file", err)
	}
	return nil
}

// unexpected logs the underlying cause and returns the closed-set variant.
func (u *vaultUseCase) unexpected(op string, err error) error {
	u.logger.Error("vault operation failed", slog.String("op", op), slog.Any("error", err))
	return vaultDomain.ErrUnexpected
}

// validUsername rejects usernames that would escape the vault folder when used
// as a file-name stem.
func validUsername(username string) bool {
	if strings.ContainsAny(username, "/\\") {
		return false
	}
	return username != "." && username != ".."
}
