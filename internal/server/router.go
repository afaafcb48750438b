package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"crowd-bidding/internal/biddingerrors"
	"crowd-bidding/internal/config"
	handler "crowd-bidding/services/bidding/handler"
	"crowd-bidding/services/bidding/helpers"
	"crowd-bidding/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Options carries the optional collaborators of the router
type Options struct {
	JWTSecret string
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	// HealthCheck reports storage reachability on /healthz; nil means always healthy
	HealthCheck func(ctx context.Context) error
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(biddingService handler.BiddingServiceInterface, opts Options) *gin.Engine {
	helpers.RegisterValidators()

	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	biddingHandler := handler.NewBiddingHandler(biddingService)
	limiter := RateLimitMiddleware(opts.RateLimit, opts.Redis)

	router.GET("/healthz", healthHandler(opts.HealthCheck))

	biddingGroup := router.Group("/bidding")
	{
		biddingGroup.GET("/current-round", biddingHandler.GetCurrentRoundHandler)
		biddingGroup.POST("/add-request-to-round", biddingHandler.AddRequestToRoundHandler)
		biddingGroup.POST("/place-bid", limiter, biddingHandler.PlaceBidHandler)
		biddingGroup.GET("/requests/:request_id/bids", biddingHandler.GetBidsForRequestHandler)
	}

	requests := router.Group("/requests")
	{
		requests.POST("", limiter, biddingHandler.SubmitRequestHandler)
		requests.GET("/:request_id", biddingHandler.GetRequestHandler)
	}

	operator := router.Group("/operator", OperatorAuthMiddleware(opts.JWTSecret))
	{
		operator.POST("/rounds", biddingHandler.OpenRoundHandler)
		operator.GET("/queue", biddingHandler.QueueHandler)
		operator.POST("/requests/:request_id/played", biddingHandler.MarkPlayedHandler)
		operator.POST("/requests/:request_id/reject", biddingHandler.RejectRequestHandler)
	}

	return router
}

func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				utils.JSONError(c, http.StatusServiceUnavailable, fmt.Errorf("%w: %w", biddingerrors.ErrStorage, err), "storage unavailable")
				return
			}
		}
		utils.JSONResponse(c, http.StatusOK, gin.H{"healthy": true}, "ok")
	}
}
