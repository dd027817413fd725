// Package request holds the JSON bodies the API accepts
package request

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mcoot/othello/internal/model"
)

// Validator is implemented by bodies with required fields. The error text is
// returned to the client as an INVALID_REQUEST message
type Validator interface {
	Validate() error
}

func required(field string) error {
	return fmt.Errorf("%s is required", field)
}

type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

func (r CreateGuestRequest) Validate() error {
	if strings.TrimSpace(r.DisplayName) == "" {
		return required("display_name")
	}
	return nil
}

// credentials is shared by register and login
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c credentials) Validate() error {
	switch {
	case c.Username == "":
		return required("username")
	case c.Password == "":
		return required("password")
	}
	return nil
}

// RegisterRequest creates an account. DisplayName defaults to the username
type RegisterRequest struct {
	credentials
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	credentials
}

// LobbyConfigRequest is a partial lobby config. Omitted fields keep their
// current value
type LobbyConfigRequest struct {
	SearchDepth *int    `json:"search_depth,omitempty"`
	HostSide    *string `json:"host_side,omitempty"`
}

func (r LobbyConfigRequest) IsEmpty() bool {
	return r.SearchDepth == nil && r.HostSide == nil
}

// ApplyTo overlays the supplied fields onto current. Range checks are left
// to model.LobbyConfig.Validate
func (r LobbyConfigRequest) ApplyTo(current model.LobbyConfig) (model.LobbyConfig, error) {
	config := current
	if r.SearchDepth != nil {
		config.SearchDepth = *r.SearchDepth
	}
	if r.HostSide != nil {
		side, ok := model.ParseSide(*r.HostSide)
		if !ok {
			return current, model.ErrInvalidConfig
		}
		config.HostSide = side
	}
	return config, nil
}

type SetRoleRequest struct {
	Role string `json:"role"`
}

type TransferHostRequest struct {
	NewHostID string `json:"new_host_id"`
}

func (r TransferHostRequest) Validate() error {
	if r.NewHostID == "" {
		return required("new_host_id")
	}
	return nil
}

// MoveRequest uses pointers so a missing coordinate is distinguishable from 0
type MoveRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

var errMoveIncomplete = errors.New("row and col are required")

func (r MoveRequest) Validate() error {
	if r.Row == nil || r.Col == nil {
		return errMoveIncomplete
	}
	return nil
}

func (r MoveRequest) Position() model.Position {
	return model.Position{Row: *r.Row, Col: *r.Col}
}

// AddBotRequest may be sent with an empty body to get the default strategy
type AddBotRequest struct {
	Strategy string `json:"strategy,omitempty"`
}
