package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/deliverytech/console/internal/apiclient"
	"github.com/deliverytech/console/internal/forms"
	"github.com/deliverytech/console/internal/logging"
)

type clientesView struct {
	Clientes  []apiclient.Cliente
	Form      apiclient.ClienteInput
	Errors    forms.Errors
	LoadError string
}

func (s *Server) ClientesPage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.clientes")
	api := entryFrom(c).Session.Client()

	view := clientesView{}
	var err error
	view.Clientes, err = api.Clientes(ctx)
	if err != nil {
		l.Warn("clientes fetch failed", "error", err)
		view.LoadError = "Não foi possível carregar os clientes."
	}
	return c.Render(http.StatusOK, "clientes.html", s.page(c, "Clientes", view))
}

func clienteInputFromForm(c echo.Context) apiclient.ClienteInput {
	return apiclient.ClienteInput{
		Nome:     c.FormValue("nome"),
		Email:    c.FormValue("email"),
		Telefone: c.FormValue("telefone"),
		Endereco: c.FormValue("endereco"),
	}
}

func (s *Server) ClienteCreate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.clientes.create")
	api := entryFrom(c).Session.Client()

	in := clienteInputFromForm(c)
	if errs := forms.Check(in); errs != nil {
		view := clientesView{Form: in, Errors: errs}
		var err error
		view.Clientes, err = api.Clientes(ctx)
		if err != nil {
			view.LoadError = "Não foi possível carregar os clientes."
		}
		return c.Render(http.StatusOK, "clientes.html", s.page(c, "Clientes", view))
	}

	cliente, err := api.CreateCliente(ctx, in)
	if err != nil {
		l.Warn("cliente create failed", "error", err)
		setFlash(c, "error", backendMessage(err, "Não foi possível cadastrar o cliente."))
		return c.Redirect(http.StatusSeeOther, "/admin/clientes")
	}

	l.Info("cliente created", "cliente_id", cliente.ID)
	setFlash(c, "success", "Cliente cadastrado.")
	return c.Redirect(http.StatusSeeOther, "/admin/clientes")
}

type clienteEditView struct {
	Cliente *apiclient.Cliente
	Form    apiclient.ClienteInput
	Errors  forms.Errors
}

func (s *Server) ClienteEditPage(c echo.Context) error {
	ctx := c.Request().Context()
	api := entryFrom(c).Session.Client()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	cliente, err := api.ClienteByID(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "cliente não encontrado")
	}
	return c.Render(http.StatusOK, "cliente_edit.html", s.page(c, "Editar Cliente", clienteEditView{
		Cliente: cliente,
		Form: apiclient.ClienteInput{
			Nome: cliente.Nome, Email: cliente.Email,
			Telefone: cliente.Telefone, Endereco: cliente.Endereco,
		},
	}))
}

func (s *Server) ClienteUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.clientes.update")
	api := entryFrom(c).Session.Client()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	in := clienteInputFromForm(c)
	if errs := forms.Check(in); errs != nil {
		return c.Render(http.StatusOK, "cliente_edit.html", s.page(c, "Editar Cliente", clienteEditView{
			Cliente: &apiclient.Cliente{ID: id},
			Form:    in,
			Errors:  errs,
		}))
	}

	if _, err := api.UpdateCliente(ctx, id, in); err != nil {
		l.Warn("cliente update failed", "cliente_id", id, "error", err)
		setFlash(c, "error", backendMessage(err, "Não foi possível atualizar o cliente."))
		return c.Redirect(http.StatusSeeOther, "/admin/clientes")
	}
	setFlash(c, "success", "Cliente atualizado.")
	return c.Redirect(http.StatusSeeOther, "/admin/clientes")
}

func (s *Server) ClienteToggleStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.clientes.status")
	api := entryFrom(c).Session.Client()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	cliente, err := api.ToggleClienteStatus(ctx, id)
	if err != nil {
		l.Warn("cliente status toggle failed", "cliente_id", id, "error", err)
		setFlash(c, "error", backendMessage(err, "Não foi possível alterar o status."))
		return c.Redirect(http.StatusSeeOther, "/admin/clientes")
	}
	if cliente.Ativo {
		setFlash(c, "success", "Cliente ativado.")
	} else {
		setFlash(c, "success", "Cliente desativado.")
	}
	return c.Redirect(http.StatusSeeOther, "/admin/clientes")
}

type restaurantesAdminView struct {
	Restaurantes []apiclient.Restaurante
	Categorias   []string
	Form         apiclient.RestauranteInput
	Errors       forms.Errors
	LoadError    string
}

func (s *Server) RestaurantesAdminPage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.restaurantes")
	api := entryFrom(c).Session.Client()

	view := restaurantesAdminView{Categorias: Categorias}
	var err error
	view.Restaurantes, err = api.Restaurantes(ctx)
	if err != nil {
		l.Warn("restaurantes fetch failed", "error", err)
		view.LoadError = "Não foi possível carregar os restaurantes."
	}
	return c.Render(http.StatusOK, "restaurantes_admin.html", s.page(c, "Restaurantes", view))
}

func restauranteInputFromForm(c echo.Context) apiclient.RestauranteInput {
	taxa, _ := strconv.ParseFloat(c.FormValue("taxa_entrega"), 64)
	avaliacao, _ := strconv.ParseFloat(c.FormValue("avaliacao"), 64)
	return apiclient.RestauranteInput{
		Nome:        c.FormValue("nome"),
		Categoria:   c.FormValue("categoria"),
		Endereco:    c.FormValue("endereco"),
		TaxaEntrega: taxa,
		Avaliacao:   avaliacao,
	}
}

func (s *Server) RestauranteCreate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.restaurantes.create")
	api := entryFrom(c).Session.Client()

	in := restauranteInputFromForm(c)
	if errs := forms.Check(in); errs != nil {
		view := restaurantesAdminView{Categorias: Categorias, Form: in, Errors: errs}
		var err error
		view.Restaurantes, err = api.Restaurantes(ctx)
		if err != nil {
			view.LoadError = "Não foi possível carregar os restaurantes."
		}
		return c.Render(http.StatusOK, "restaurantes_admin.html", s.page(c, "Restaurantes", view))
	}

	rest, err := api.CreateRestaurante(ctx, in)
	if err != nil {
		l.Warn("restaurante create failed", "error", err)
		setFlash(c, "error", backendMessage(err, "Não foi possível cadastrar o restaurante."))
		return c.Redirect(http.StatusSeeOther, "/admin/restaurantes")
	}

	l.Info("restaurante created", "restaurante_id", rest.ID)
	setFlash(c, "success", "Restaurante cadastrado.")
	return c.Redirect(http.StatusSeeOther, "/admin/restaurantes")
}

type restauranteEditView struct {
	Restaurante *apiclient.Restaurante
	Categorias  []string
	Form        apiclient.RestauranteInput
	Errors      forms.Errors
}

func (s *Server) RestauranteEditPage(c echo.Context) error {
	ctx := c.Request().Context()
	api := entryFrom(c).Session.Client()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rest, err := api.RestauranteByID(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "restaurante não encontrado")
	}
	return c.Render(http.StatusOK, "restaurante_edit.html", s.page(c, "Editar Restaurante", restauranteEditView{
		Restaurante: rest,
		Categorias:  Categorias,
		Form: apiclient.RestauranteInput{
			Nome: rest.Nome, Categoria: rest.Categoria, Endereco: rest.Endereco,
			TaxaEntrega: rest.TaxaEntrega, Avaliacao: rest.Avaliacao,
		},
	}))
}

func (s *Server) RestauranteUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.restaurantes.update")
	api := entryFrom(c).Session.Client()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	in := restauranteInputFromForm(c)
	if errs := forms.Check(in); errs != nil {
		return c.Render(http.StatusOK, "restaurante_edit.html", s.page(c, "Editar Restaurante", restauranteEditView{
			Restaurante: &apiclient.Restaurante{ID: id},
			Categorias:  Categorias,
			Form:        in,
			Errors:      errs,
		}))
	}

	if _, err := api.UpdateRestaurante(ctx, id, in); err != nil {
		l.Warn("restaurante update failed", "restaurante_id", id, "error", err)
		setFlash(c, "error", backendMessage(err, "Não foi possível atualizar o restaurante."))
		return c.Redirect(http.StatusSeeOther, "/admin/restaurantes")
	}
	setFlash(c, "success", "Restaurante atualizado.")
	return c.Redirect(http.StatusSeeOther, "/admin/restaurantes")
}

func (s *Server) RestauranteToggleStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.restaurantes.status")
	api := entryFrom(c).Session.Client()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rest, err := api.ToggleRestauranteStatus(ctx, id)
	if err != nil {
		l.Warn("restaurante status toggle failed", "restaurante_id", id, "error", err)
		setFlash(c, "error", backendMessage(err, "Não foi possível alterar o status."))
		return c.Redirect(http.StatusSeeOther, "/admin/restaurantes")
	}
	if rest.Ativo {
		setFlash(c, "success", "Restaurante ativado.")
	} else {
		setFlash(c, "success", "Restaurante desativado.")
	}
	return c.Redirect(http.StatusSeeOther, "/admin/restaurantes")
}

type produtosAdminView struct {
	Produtos      []apiclient.Produto
	Restaurantes  []apiclient.Restaurante
	RestauranteID int64
	LoadError     string
}

func (s *Server) ProdutosAdminPage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.produtos")
	api := entryFrom(c).Session.Client()

	view := produtosAdminView{}
	view.RestauranteID, _ = strconv.ParseInt(c.QueryParam("restaurante"), 10, 64)

	var err error
	view.Restaurantes, err = api.Restaurantes(ctx)
	if err != nil {
		l.Warn("restaurantes fetch failed", "error", err)
		view.LoadError = "Não foi possível carregar os restaurantes."
	}

	if view.RestauranteID > 0 {
		view.Produtos, err = api.ProdutosByRestaurante(ctx, view.RestauranteID)
	} else {
		view.Produtos, err = api.Produtos(ctx)
	}
	if err != nil {
		l.Warn("produtos fetch failed", "error", err)
		view.LoadError = "Não foi possível carregar os produtos."
	}

	return c.Render(http.StatusOK, "produtos_admin.html", s.page(c, "Produtos", view))
}
