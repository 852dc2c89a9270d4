package main

import (
	"github.com/joho/godotenv"

	"github.com/cppla/discuss/config"
	"github.com/cppla/discuss/models"
	"github.com/cppla/discuss/routes"
	"github.com/cppla/discuss/store"
	"github.com/cppla/discuss/utils"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase(models.All()...)

	guard := utils.NewReportGuard(utils.GetRedis(), cfg.ReportMaxPerUserPerHr)
	r := routes.SetupRouter(routes.Deps{Store: store.New(db), Guard: guard})

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
