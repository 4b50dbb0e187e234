package v1

import (
	"net/http"

	"github.com/flexprice/mgmt/internal/api/dto"
	"github.com/flexprice/mgmt/internal/domain/resource"
	ierr "github.com/flexprice/mgmt/internal/errors"
	"github.com/flexprice/mgmt/internal/logger"
	"github.com/flexprice/mgmt/internal/service"
	"github.com/flexprice/mgmt/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type ResourceHandler struct {
	service service.ManagementService
	log     *logger.Logger
}

func NewResourceHandler(service service.ManagementService, log *logger.Logger) *ResourceHandler {
	return &ResourceHandler{service: service, log: log}
}

// @Summary Register resource
// @Description Register a managed resource under an object name
// @Tags Resources
// @Accept json
// @Produce json
// @Param resource body dto.RegisterResourceRequest true "Resource"
// @Success 201 {object} dto.ResourceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /resources [post]
func (h *ResourceHandler) RegisterResource(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.RegisterResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	r, err := h.service.RegisterResource(ctx, &req)
	if err != nil {
		h.log.Error("Failed to register resource", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToResourceResponse(r))
}

// @Summary Query resources
// @Description List the resources matching a name pattern and attribute filter
// @Tags Resources
// @Produce json
// @Param filter query dto.ResourceFilter false "Filter"
// @Success 200 {object} dto.ListResourcesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /resources [get]
func (h *ResourceHandler) QueryResources(c *gin.Context) {
	ctx := c.Request.Context()
	var filter dto.ResourceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.log.Error("Failed to bind query", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}
	if err := filter.Validate(); err != nil {
		c.Error(err)
		return
	}

	pattern, err := filter.ToPattern()
	if err != nil {
		c.Error(err)
		return
	}

	if filter.NamesOnly {
		names, err := h.service.QueryNames(ctx, pattern, filter.ToExp())
		if err != nil {
			h.log.Error("Failed to query names", "error", err)
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, &dto.ListNamesResponse{
			Names: lo.Map(names, func(n types.ObjectName, _ int) string { return n.String() }),
			Total: len(names),
		})
		return
	}

	resources, err := h.service.QueryResources(ctx, pattern, filter.ToExp())
	if err != nil {
		h.log.Error("Failed to query resources", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.ListResourcesResponse{
		Items: lo.Map(resources, func(r *resource.Resource, _ int) *dto.ResourceResponse {
			return dto.ToResourceResponse(r)
		}),
		Total: len(resources),
	})
}

// @Summary Get resource
// @Tags Resources
// @Produce json
// @Param name query string true "Object name"
// @Success 200 {object} dto.ResourceResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /resources/lookup [get]
func (h *ResourceHandler) GetResource(c *gin.Context) {
	name, ok := h.objectName(c)
	if !ok {
		return
	}

	r, err := h.service.GetResource(c.Request.Context(), name)
	if err != nil {
		h.log.Error("Failed to get resource", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.ToResourceResponse(r))
}

// @Summary Unregister resource
// @Tags Resources
// @Produce json
// @Param name query string true "Object name"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ierr.ErrorResponse
// @Router /resources [delete]
func (h *ResourceHandler) UnregisterResource(c *gin.Context) {
	name, ok := h.objectName(c)
	if !ok {
		return
	}

	if err := h.service.UnregisterResource(c.Request.Context(), name); err != nil {
		h.log.Error("Failed to unregister resource", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Resource unregistered successfully"})
}

// @Summary Get attributes
// @Description Get one attribute, or several when attribute is repeated or omitted
// @Tags Resources
// @Produce json
// @Param name query string true "Object name"
// @Param attribute query []string false "Attribute names"
// @Success 200 {object} dto.AttributeResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /resources/attributes [get]
func (h *ResourceHandler) GetAttributes(c *gin.Context) {
	name, ok := h.objectName(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	attributes := c.QueryArray("attribute")

	if len(attributes) == 1 {
		v, err := h.service.GetAttribute(ctx, name, attributes[0])
		if err != nil {
			h.log.Error("Failed to get attribute", "error", err)
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, &dto.AttributeResponse{
			Name:      name.String(),
			Attribute: attributes[0],
			Value:     v,
		})
		return
	}

	values, err := h.service.GetAttributes(ctx, name, attributes)
	if err != nil {
		h.log.Error("Failed to get attributes", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, values)
}

// @Summary Set attribute
// @Tags Resources
// @Accept json
// @Produce json
// @Param attribute body dto.SetAttributeRequest true "Attribute"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /resources/attributes [put]
func (h *ResourceHandler) SetAttribute(c *gin.Context) {
	var req dto.SetAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.service.SetAttribute(c.Request.Context(), &req); err != nil {
		h.log.Error("Failed to set attribute", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attribute updated successfully"})
}

// @Summary List domains
// @Tags Resources
// @Produce json
// @Success 200 {object} dto.DomainsResponse
// @Router /domains [get]
func (h *ResourceHandler) GetDomains(c *gin.Context) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, &dto.DomainsResponse{
		Domains:       h.service.GetDomains(ctx),
		DefaultDomain: h.service.GetDefaultDomain(),
		Count:         h.service.GetResourceCount(ctx),
	})
}

func (h *ResourceHandler) objectName(c *gin.Context) (types.ObjectName, bool) {
	raw := c.Query("name")
	if raw == "" {
		c.Error(ierr.NewError("object name is required").
			WithHint("Object name is required").
			Mark(ierr.ErrValidation))
		return types.ObjectName{}, false
	}

	name, err := types.ParseObjectName(raw)
	if err != nil {
		c.Error(err)
		return types.ObjectName{}, false
	}
	return name, true
}
