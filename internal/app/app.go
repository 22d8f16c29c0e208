package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/middleware"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/notify"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/service"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/redis"
)

const apiPrefix = "api/"

func Start() {
	gin.DisableConsoleColor()

	router := gin.Default()
	router.Use(cors.Default())
	router.Use(middleware.BlockBadActorsMiddleware())
	fromTelegram := router.Group("/", middleware.ValidateTelegramInitDataMiddleware())
	authorized := fromTelegram.Group("/", middleware.AuthMiddleware())
	admin := router.Group("/", middleware.AdminAuthMiddleware())

	redisAddr, ok := os.LookupEnv("REDIS_ADDR")
	if !ok {
		redisAddr = "redis:6379"
	}
	redisService := redis.NewRedisService(redisAddr, "")

	notify.Init()
	service.InitLedgerFeed(redisService)
	adminService := service.NewAdminService(redisService)

	accrualCron := service.StartAccrualScheduler()
	defer accrualCron.Stop()

	// router
	{
		router.POST(apiPrefix+"admin/login", adminService.Login)
	}

	// fromTelegram
	{
		fromTelegram.GET(apiPrefix+"users/auth", service.Auth)
		fromTelegram.POST(apiPrefix+"users/auth/signup", service.SignUp)
	}

	// authorized
	{
		// account
		authorized.GET(apiPrefix+"users/summary", service.GetAccountSummary)
		authorized.GET(apiPrefix+"users/transactions", service.GetUserTransactions)

		// referrals
		authorized.GET(apiPrefix+"users/referrals", service.GetUserReferrals)

		// investments
		authorized.POST(apiPrefix+"investments", service.CreateInvestment)
		authorized.GET(apiPrefix+"investments", service.GetUserInvestments)

		// withdrawals
		authorized.POST(apiPrefix+"payments/withdrawal", service.CreateWithdrawal)
		authorized.GET(apiPrefix+"payments/withdrawals", service.GetUserWithdrawals)
	}

	// admin
	{
		admin.GET(apiPrefix+"admin/investments/pending", service.GetPendingInvestments)
		admin.POST(apiPrefix+"admin/investments/:id/approve", service.ApproveInvestment)
		admin.POST(apiPrefix+"admin/investments/:id/reject", service.RejectInvestment)
		admin.POST(apiPrefix+"admin/investments/:id/accrue", service.AccrueInvestment)

		admin.GET(apiPrefix+"admin/withdrawals/pending", service.GetPendingWithdrawals)
		admin.POST(apiPrefix+"admin/withdrawals/:id/approve", service.ApproveWithdrawal)
		admin.POST(apiPrefix+"admin/withdrawals/:id/reject", service.RejectWithdrawal)

		admin.GET(apiPrefix+"admin/accounts/:id/summary", service.GetAccountSummaryByID)
		admin.GET(apiPrefix+"admin/accounts/:id/reconcile", service.Reconcile)
		admin.POST(apiPrefix+"admin/accounts/:id/adjust", service.AdjustBalance)
		admin.POST(apiPrefix+"admin/accounts/:id/ban", service.BanAccount)
		admin.POST(apiPrefix+"admin/accounts/:id/unban", service.UnbanAccount)

		admin.POST(apiPrefix+"admin/accrual/run", service.RunAccrual)

		admin.GET(apiPrefix+"admin/ledger/events", service.LedgerFeed.GetRecentEvents)
		admin.GET(apiPrefix+"ws/ledger/live", service.LedgerFeed.LiveEventsWebsocketHandler)
	}

	srv := &http.Server{
		Addr:    ":8080",
		Handler: router.Handler(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with
	// a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server Shutdown: %v", err)
	}

	logger.Info("Server exiting")
}
