package container

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	"github.com/vetdao/governance-locks/internal/config"
	"github.com/vetdao/governance-locks/internal/db"
	"github.com/vetdao/governance-locks/testutil"
)

const (
	mongoUsername     = "user"
	mongoPassword     = "password"
	mongoDatabaseName = "e2e-database"

	rabbitUsername = "user"
	rabbitPassword = "password"

	readinessTimeout = 2 * time.Minute
)

// Manager is a wrapper around all Docker instances, and the Docker API.
// It provides utilities to run and interact with all Docker containers used within e2e testing.
type Manager struct {
	cfg       ImageConfig
	pool      *dockertest.Pool
	resources map[string]*dockertest.Resource
}

// NewManager creates a new Manager instance and initializes
// all Docker specific utilities. Returns an error if initialization fails.
func NewManager(t *testing.T) (*Manager, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, err
	}
	pool.MaxWait = readinessTimeout

	m := &Manager{
		cfg:       NewImageConfig(),
		pool:      pool,
		resources: make(map[string]*dockertest.Resource),
	}
	t.Cleanup(func() {
		m.ClearResources(t)
	})
	return m, nil
}

func (m *Manager) run(t *testing.T, name string, opts *dockertest.RunOptions) *dockertest.Resource {
	suffix, err := testutil.RandomAlphaNum(4)
	require.NoError(t, err)

	// there can be only 1 container with the same name
	opts.Name = fmt.Sprintf("%s-%s", name, suffix)
	resource, err := m.pool.RunWithOptions(opts, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	require.NoError(t, err)

	m.resources[name] = resource
	return resource
}

// RunMongo starts mongodb and waits until it accepts connections
func (m *Manager) RunMongo(t *testing.T) *config.DbConfig {
	resource := m.run(t, "governance-locks-e2e-mongo", &dockertest.RunOptions{
		Repository: m.cfg.MongoRepository,
		Tag:        m.cfg.MongoVersion,
		Env: []string{
			"MONGO_INITDB_ROOT_USERNAME=" + mongoUsername,
			"MONGO_INITDB_ROOT_PASSWORD=" + mongoPassword,
			"MONGO_INITDB_DATABASE=" + mongoDatabaseName,
		},
	})

	cfg := &config.DbConfig{
		Username: mongoUsername,
		Password: mongoPassword,
		DbName:   mongoDatabaseName,
		Address:  fmt.Sprintf("mongodb://localhost:%s/", resource.GetPort("27017/tcp")),
	}

	err := m.pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		client, err := db.New(ctx, *cfg)
		if err != nil {
			return err
		}
		return client.Close(ctx)
	})
	require.NoError(t, err)

	return cfg
}

// RunRabbitMQ starts rabbitmq and waits until it accepts amqp connections
func (m *Manager) RunRabbitMQ(t *testing.T) *config.QueueConfig {
	resource := m.run(t, "governance-locks-e2e-rabbitmq", &dockertest.RunOptions{
		Repository: m.cfg.RabbitMQRepository,
		Tag:        m.cfg.RabbitMQVersion,
		Env: []string{
			"RABBITMQ_DEFAULT_USER=" + rabbitUsername,
			"RABBITMQ_DEFAULT_PASS=" + rabbitPassword,
		},
	})

	cfg := &config.QueueConfig{
		Url:              fmt.Sprintf("localhost:%s", resource.GetPort("5672/tcp")),
		User:             rabbitUsername,
		Password:         rabbitPassword,
		Exchange:         "governance-locks-e2e",
		PublishTimeout:   5 * time.Second,
		MaxRetryAttempts: 3,
	}

	err := m.pool.Retry(func() error {
		conn, err := amqp.Dial(cfg.AmqpURL())
		if err != nil {
			return err
		}
		return conn.Close()
	})
	require.NoError(t, err)

	return cfg
}

// ClearResources removes all outstanding Docker resources created by the Manager.
func (m *Manager) ClearResources(t *testing.T) {
	for name, resource := range m.resources {
		if err := m.pool.Purge(resource); err != nil {
			t.Logf("failed to purge %s: %v", name, err)
		}
		delete(m.resources, name)
	}
}
