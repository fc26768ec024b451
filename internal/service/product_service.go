package service

import (
	"context"
	"strings"

	"github.com/GohLiangHong/SupermarketApp/internal/domain"
)

type ProductService struct {
	products ProductRepo
}

func NewProductService(products ProductRepo) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

type ProductParams struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

func (p ProductParams) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidProduct
	}
	if p.Price < 0 || p.Quantity < 0 {
		return ErrInvalidProduct
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, params ProductParams) (*domain.Product, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	product := &domain.Product{
		Name:     strings.TrimSpace(params.Name),
		Price:    domain.RoundMoney(params.Price),
		Quantity: params.Quantity,
		Image:    params.Image,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, params ProductParams) (*domain.Product, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Name = strings.TrimSpace(params.Name)
	product.Price = domain.RoundMoney(params.Price)
	product.Quantity = params.Quantity
	product.Image = params.Image
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}
