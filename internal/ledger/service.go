package ledger

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// OrderRecord is a finalized order held by the ledger. The row id is
// the tracking identifier handed back to the bot; sqlite autoincrement
// keeps it monotonically increasing.
type OrderRecord struct {
	ID        uint `gorm:"primary_key"`
	TotalCost float64
	CreatedAt time.Time
	Items     []OrderItemRecord `gorm:"foreignkey:OrderID"`
}

// OrderItemRecord is one line of a finalized order
type OrderItemRecord struct {
	ID       uint `gorm:"primary_key"`
	OrderID  uint
	Name     string
	Quantity int
}

// Service exposes the order ledger over HTTP:
// POST /api/orders accepts {items, totalCost} and answers {order_id};
// GET /api/orders/:id answers {items, totalCost} or {error}.
type Service struct {
	router *gin.Engine
	db     *gorm.DB
}

// OpenDB opens the ledger database and migrates its schema
func OpenDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.AutoMigrate(&OrderRecord{}, &OrderItemRecord{})
	return db, nil
}

// NewService creates a ledger service over an open database
func NewService(db *gorm.DB) *Service {
	s := &Service{
		router: gin.Default(),
		db:     db,
	}
	s.setupRoutes()
	return s
}

// Router returns the Gin router
func (s *Service) Router() *gin.Engine {
	return s.router
}

// RegisterRoutes mounts the ledger endpoints on an existing router, for
// running the ledger in the same process as the chat surface
func (s *Service) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/orders", s.CreateOrder)
		api.GET("/orders/:id", s.GetOrder)
	}
}

func (s *Service) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.RegisterRoutes(s.router)
}

type createOrderRequest struct {
	Items     map[string]int `json:"items"`
	TotalCost float64        `json:"totalCost"`
}

// CreateOrder stores a finalized order and returns its tracking id
func (s *Service) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record := OrderRecord{
		TotalCost: req.TotalCost,
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for name, qty := range req.Items {
		item := OrderItemRecord{OrderID: record.ID, Name: name, Quantity: qty}
		if err := s.db.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"order_id": record.ID})
}

// GetOrder retrieves a finalized order by tracking id
func (s *Service) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	var record OrderRecord
	if err := s.db.Preload("Items").Where("id = ?", id).First(&record).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	items := make(map[string]int, len(record.Items))
	for _, item := range record.Items {
		items[item.Name] = item.Quantity
	}

	c.JSON(http.StatusOK, gin.H{
		"items":     items,
		"totalCost": record.TotalCost,
	})
}
