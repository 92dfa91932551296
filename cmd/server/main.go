package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"undercover/internal/game/character"
	"undercover/internal/game/role"
	"undercover/internal/network"
	"undercover/internal/services/cluster"
	"undercover/internal/session"

	"go.uber.org/zap"
)

// ============================================================================
// Constantes de Configuração Padrão
// ============================================================================
const (
	defaultServiceName = "undercover-room"
	// 3080 também serve os arquivos estáticos da apresentação, quando
	// STATIC_DIR está definido: um processo só para jogo e assets.
	defaultServicePort = 3080
	defaultHealthPort  = 3080

	defaultCharacterCatalog = "configs/characters.txt"
	defaultRoleCatalog      = "configs/roles.txt"
)

// Config armazena todas as configurações da aplicação.
type Config struct {
	ServiceName string
	ServicePort int
	HealthPort  int

	// Endereço do Consul. Vazio desliga o registro de serviço: em
	// desenvolvimento o servidor roda sozinho.
	ConsulAddr string

	CharacterCatalogPath string
	RoleCatalogPath      string

	// Diretório dos arquivos estáticos da apresentação. Vazio desliga o
	// file server.
	StaticDir string
}

// loadConfig carrega a configuração a partir de variáveis de ambiente.
func loadConfig() (*Config, error) {
	serviceName := os.Getenv("ROOM_SERVICE_NAME")
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	servicePortStr := os.Getenv("ROOM_SERVICE_PORT")
	if servicePortStr == "" {
		servicePortStr = fmt.Sprintf("%d", defaultServicePort)
	}
	servicePort, err := strconv.Atoi(servicePortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid ROOM_SERVICE_PORT: %w", err)
	}

	healthPortStr := os.Getenv("HEALTH_CHECK_PORT")
	if healthPortStr == "" {
		healthPortStr = fmt.Sprintf("%d", defaultHealthPort)
	}
	healthPort, err := strconv.Atoi(healthPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HEALTH_CHECK_PORT: %w", err)
	}

	characterCatalog := os.Getenv("CHARACTER_CATALOG_PATH")
	if characterCatalog == "" {
		characterCatalog = defaultCharacterCatalog
	}

	roleCatalog := os.Getenv("ROLE_CATALOG_PATH")
	if roleCatalog == "" {
		roleCatalog = defaultRoleCatalog
	}

	return &Config{
		ServiceName:          serviceName,
		ServicePort:          servicePort,
		HealthPort:           healthPort,
		ConsulAddr:           os.Getenv("CONSUL_HTTP_ADDR"),
		CharacterCatalogPath: characterCatalog,
		RoleCatalogPath:      roleCatalog,
		StaticDir:            os.Getenv("STATIC_DIR"),
	}, nil
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// 1. CARREGA A CONFIGURAÇÃO
	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	logger.Info("configuration loaded",
		zap.String("serviceName", cfg.ServiceName),
		zap.Int("port", cfg.ServicePort),
		zap.String("consul", cfg.ConsulAddr),
	)

	// 2. CARREGA OS CATÁLOGOS ESTÁTICOS
	catalog, err := character.LoadCatalog(cfg.CharacterCatalogPath)
	if err != nil {
		logger.Fatal("failed to load character catalog", zap.Error(err))
	}
	roles, err := role.LoadTable(cfg.RoleCatalogPath)
	if err != nil {
		logger.Fatal("failed to load role catalog", zap.Error(err))
	}
	logger.Info("catalogs loaded",
		zap.Int("characters", len(catalog)),
		zap.Int("roleModes", len(roles)),
	)

	// 3. MONTA A LÓGICA DO JOGO
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 1))
	handler := session.NewGameHandler(catalog, roles, rng, logger)
	server := network.NewServer(handler, logger)

	// 4. HEALTH CHECK
	health := cluster.NewHealthAggregator()
	health.AddCheck("characterCatalog", func() error {
		if len(catalog) == 0 {
			return fmt.Errorf("character catalog is empty")
		}
		return nil
	})
	health.AddCheck("roleCatalog", func() error {
		if len(roles) == 0 {
			return fmt.Errorf("role catalog is empty")
		}
		return nil
	})

	// 5. REGISTRA NO CONSUL, SE HOUVER UM
	if cfg.ConsulAddr != "" {
		err := cluster.RegisterServiceInConsul(cfg.ServiceName, cfg.ServicePort, cfg.HealthPort, cfg.ConsulAddr)
		if err != nil {
			logger.Fatal("failed to register service in consul", zap.Error(err))
		}
		logger.Info("service registered in consul", zap.String("serviceName", cfg.ServiceName))
	}

	// 6. SOBE O SERVIDOR
	address := fmt.Sprintf(":%d", cfg.ServicePort)
	if err := server.Listen(address, cfg.StaticDir, health.Handler()); err != nil {
		logger.Fatal("server terminated", zap.Error(err))
	}
}
