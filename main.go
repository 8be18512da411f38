package main

import (
	"meetgo/meetup-api/api"
	"meetgo/meetup-api/config"
	"meetgo/meetup-api/service"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	if config.WorkerMode() {
		if err := service.RunMailWorker(); err != nil {
			panic(err)
		}
		return
	}

	a, err := api.NewRouter()
	if err != nil {
		panic(err)
	}

	zap.L().Info("Server starting", zap.Int("port", viper.GetInt("host.port")))

	err = a.Router.Run(":" + strconv.Itoa(viper.GetInt("host.port")))
	if err != nil {
		panic(err)
	}
}
