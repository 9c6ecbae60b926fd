package guard

import (
	"sync"

	"github.com/cloudsteer/console-core/pkg/identity"
)

// State holds the mutable authorization state shared across
// navigations: the cached role grant, the forced-password-reset flag,
// and the authorization error banner. Created at bootstrap, reset on
// sign-out. Safe for concurrent use.
type State struct {
	mu                sync.RWMutex
	roleInfo          *identity.RoleInfo
	needPwdReset      bool
	authzErrorVisible bool
}

// NewState creates empty authorization state
func NewState() *State {
	return &State{}
}

// SetRoleInfo replaces the cached role grant wholesale. nil clears it.
func (s *State) SetRoleInfo(info *identity.RoleInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roleInfo = info
}

// RoleInfo returns the cached role grant, or nil when none is held
func (s *State) RoleInfo() *identity.RoleInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roleInfo
}

// ResetRoleInfo clears the cached role grant after a failed grant call
func (s *State) ResetRoleInfo() {
	s.SetRoleInfo(nil)
}

// SetNeedPwdReset flags the session as requiring a password reset
func (s *State) SetNeedPwdReset(need bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.needPwdReset = need
}

// NeedPwdReset reports whether the session must reset its password
func (s *State) NeedPwdReset() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.needPwdReset
}

// ShowAuthzError raises the authorization error banner
func (s *State) ShowAuthzError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authzErrorVisible = true
}

// ClearAuthzError dismisses the authorization error banner
func (s *State) ClearAuthzError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authzErrorVisible = false
}

// AuthzErrorVisible reports whether the banner is currently raised
func (s *State) AuthzErrorVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authzErrorVisible
}

// Reset clears everything. Called on sign-out.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roleInfo = nil
	s.needPwdReset = false
	s.authzErrorVisible = false
}
