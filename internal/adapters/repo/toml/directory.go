package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/settingsync/settingsync/internal/domain"
	"github.com/settingsync/settingsync/internal/ports"
	"github.com/spf13/viper"
)

const (
	clientsPathKey     = "store.path"
	clientsDefaultFile = "clients.toml"
	clientsTempPattern = ".clients-*.toml.tmp"
)

// Directory is the file-backed client directory. The settings
// registration layer owns creation of entries; this adapter serves
// lookups for the sync path and saves for the admin CLI.
type Directory struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.ClientDirectory = (*Directory)(nil)

func NewDirectory(cfg *viper.Viper) (*Directory, error) {
	path, err := resolveStorePath(cfg, clientsPathKey, clientsDefaultFile)
	if err != nil {
		return nil, err
	}

	return &Directory{path: path, mu: lockForPath(path)}, nil
}

func (d *Directory) Get(ctx context.Context, name, instance string) (domain.ClientDefinition, error) {
	if err := ctx.Err(); err != nil {
		return domain.ClientDefinition{}, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	file, err := d.readSchema()
	if err != nil {
		return domain.ClientDefinition{}, err
	}

	for _, entry := range file.Clients {
		if entry.Name == name && entry.Instance == instance {
			return fromClientSchema(entry), nil
		}
	}

	return domain.ClientDefinition{}, domain.ErrClientNotFound
}

func (d *Directory) List(ctx context.Context) ([]domain.ClientDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	file, err := d.readSchema()
	if err != nil {
		return nil, err
	}

	defs := make([]domain.ClientDefinition, 0, len(file.Clients))
	for _, entry := range file.Clients {
		defs = append(defs, fromClientSchema(entry))
	}

	return defs, nil
}

func (d *Directory) Save(ctx context.Context, def domain.ClientDefinition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := def.Validate(); err != nil {
		return fmt.Errorf("validate client definition: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	file, err := d.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	encoded := toClientSchema(def)
	updated := false
	for i := range file.Clients {
		if file.Clients[i].Name == encoded.Name && file.Clients[i].Instance == encoded.Instance {
			file.Clients[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Clients = append(file.Clients, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return d.writeSchema(file)
}

func (d *Directory) readSchema() (clientsFileSchema, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return clientsFileSchema{}, nil
		}
		return clientsFileSchema{}, fmt.Errorf("read clients file: %w", err)
	}

	var file clientsFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return clientsFileSchema{}, fmt.Errorf("decode clients file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return clientsFileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (d *Directory) writeSchema(file clientsFileSchema) error {
	file.applyDefaults()

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode clients file: %w", err)
	}

	return writeFileAtomic(d.path, data, clientsTempPattern)
}
