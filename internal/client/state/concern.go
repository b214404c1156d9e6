// Package state tient le miroir local panier / wishlist / recherche.
// Chaque préoccupation a son propre service et sa machine d'état :
// idle → loading → success | error. Un succès remplace le miroir par la
// réponse du serveur, une erreur le laisse intact.
package state

import (
	"errors"
	"sync"

	"cedra_storefront/internal/utils"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Snapshot copie de l'état d'une préoccupation à un instant donné
type Snapshot[T any] struct {
	Status Status
	Error  string
	Data   T
}

func (s Snapshot[T]) Loading() bool {
	return s.Status == StatusLoading
}

// Concern état d'une préoccupation. seq numérote les requêtes : seule la
// réponse de la dernière requête émise est appliquée.
type Concern[T any] struct {
	mu     sync.RWMutex
	status Status
	errMsg string
	err    error
	data   T
	seq    uint64
}

func newConcern[T any]() *Concern[T] {
	return &Concern[T]{status: StatusIdle}
}

func (c *Concern[T]) Snapshot() Snapshot[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot[T]{Status: c.status, Error: c.errMsg, Data: c.data}
}

// Err dernière erreur reçue, nil après un succès
func (c *Concern[T]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

func (c *Concern[T]) current() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data
}

func (c *Concern[T]) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.status = StatusLoading
	return c.seq
}

// finish applique le résultat de la requête seq. Retourne false si une
// requête plus récente a été émise entre-temps (réponse ignorée).
func (c *Concern[T]) finish(seq uint64, data T, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return false
	}
	if err != nil {
		c.status = StatusError
		c.err = err
		c.errMsg = errorMessage(err)
		return true
	}
	c.status = StatusSuccess
	c.err = nil
	c.errMsg = ""
	c.data = data
	return true
}

// reset vide le miroir ; les réponses encore en vol seront ignorées
func (c *Concern[T]) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.seq++
	c.status = StatusIdle
	c.err = nil
	c.errMsg = ""
	c.data = zero
}

func errorMessage(err error) string {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
