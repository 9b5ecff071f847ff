package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"ozpay/internal/usecase/interfaces"
)

var (
	ErrUnknownGateway           = errors.New("unknown payment gateway")
	ErrGatewayAlreadyRegistered = errors.New("payment gateway already registered")
)

// GatewayRegistry holds one gateway per payment method (card, pix, boleto, ...).
//
// It is filled once at start-up; Resolve is safe for concurrent use.

type GatewayRegistry struct {
	mu       sync.RWMutex
	gateways map[string]interfaces.IPaymentGateway
}

func NewGatewayRegistry() *GatewayRegistry {
	return &GatewayRegistry{gateways: map[string]interfaces.IPaymentGateway{}}
}

func (r *GatewayRegistry) Register(method string, gw interfaces.IPaymentGateway) error {
	if strings.TrimSpace(method) == "" || gw == nil {
		return errors.New("gateway registry: method and gateway are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.gateways[method]; ok {
		return fmt.Errorf("%w: %s", ErrGatewayAlreadyRegistered, method)
	}
	r.gateways[method] = gw
	return nil
}

// Resolve looks a gateway up by exact method name.
func (r *GatewayRegistry) Resolve(method string) (interfaces.IPaymentGateway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gw, ok := r.gateways[method]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGateway, method)
	}
	return gw, nil
}

func (r *GatewayRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.gateways))
	for name := range r.gateways {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
