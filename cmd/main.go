package main

import (
	"log"

	"github.com/goalstake/goalstake-server/internal/challenge"
	"github.com/goalstake/goalstake-server/internal/group"
	infra "github.com/goalstake/goalstake-server/internal/infrastructure"
	"github.com/goalstake/goalstake-server/internal/infrastructure/driver"
	"github.com/goalstake/goalstake-server/internal/infrastructure/logging"
	"github.com/goalstake/goalstake-server/internal/infrastructure/uuid"
	ihttp "github.com/goalstake/goalstake-server/internal/interfaces/http"
	"github.com/goalstake/goalstake-server/internal/recognize"
	"github.com/goalstake/goalstake-server/internal/usage"
	"github.com/goalstake/goalstake-server/internal/user"
	"go.uber.org/zap"
)

func main() {
	log.SetFlags(log.Lshortfile | log.Ldate | log.Ltime)
	option, err := infra.InitConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(&logging.Config{
		FilePath: option.Logging.FilePath,
		Level:    option.Logging.Level,
		AppID:    option.AppID,
		Env:      option.Env,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %s\n", err)
	}
	logger = logger.With(
		zap.String("service.id", option.AppID),
	)
	defer logger.Sync()

	dbConn, err := driver.GetDBConnection(&driver.DBConfig{
		User:     option.Database.User,
		Password: option.Database.Password,
		MaxConn:  option.Database.MaxConn,
		Protocol: option.Database.Protocol,
		Driver:   option.Database.Driver,
		Host:     option.Database.Host,
		Port:     option.Database.Port,
		Query:    option.Database.Query,
		Schema:   option.Database.Schema,
	})
	if err != nil {
		log.Fatalf("Failed to create DB connection: %s\n", err)
	}
	logger.Debug("Create db connection instance", zap.String("db.driver", option.Database.Driver),
		zap.String("db.schema", option.Database.Schema),
		zap.String("db.host", option.Database.Host),
	)

	rdb := driver.NewRedisClient(option.KVStore.Host, option.KVStore.Port, option.KVStore.Password)

	var recognizer recognize.Recognizer = recognize.Disabled{}
	if option.Recognition.Endpoint != "" {
		recognizer = recognize.NewHTTPRecognizer(
			option.Recognition.Endpoint,
			option.Recognition.APIKey,
			option.Recognition.Timeout,
		)
		logger.Debug("Recognition service enabled", zap.String("url.full", option.Recognition.Endpoint))
	}

	UUIDGenerator := uuid.NewNanoIDGenerator(option.Security.IDLength)
	UserRepo := user.NewUserRepository(dbConn, UUIDGenerator)
	UserUseCase := user.NewUserUseCase(UserRepo)

	UsageRepo := usage.NewUsageRepository(dbConn)
	UsageUseCase := usage.NewUsageUseCase(UsageRepo, recognizer, rdb)

	GroupRepo := group.NewGroupRepository(dbConn, UUIDGenerator)
	GroupUseCase := group.NewGroupUseCase(GroupRepo)

	ChallengeRepo := challenge.NewChallengeRepository(dbConn, UUIDGenerator)
	ChallengeUseCase := challenge.NewChallengeUseCase(ChallengeRepo, GroupRepo)

	ihttp.Serve(dbConn, rdb, option, UserUseCase, UserRepo, UsageUseCase, GroupUseCase, ChallengeUseCase, logger)
}
