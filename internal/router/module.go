package router

import "github.com/gin-gonic/gin"

// Module is one slice of the route table (auth, leads, blog, forms,
// uploads). Each module attaches its handlers and auth gates to the /api
// group it is given.
type Module interface {
	Register(rg *gin.RouterGroup)
}
