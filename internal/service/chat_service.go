package service

import (
	"regexp"
	"strings"

	"compta-pme-api/internal/metrics"
)

const intentFallback = "fallback"

type ChatService interface {
	Reply(message string) *ChatReply
}

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type ChatReply struct {
	Reply  string `json:"reply"`
	Intent string `json:"intent"`
}

type chatRule struct {
	intent  string
	pattern *regexp.Regexp
	reply   string
}

// Rules are tried in order, the first match answers.
var chatRules = []chatRule{
	{
		intent:  "greeting",
		pattern: regexp.MustCompile(`^(bonjour|bonsoir|salut|hello|coucou|hey)\b`),
		reply:   "Bonjour ! Je suis votre assistant comptable. Posez-moi une question sur vos factures, la TVA, le stock ou votre budget.",
	},
	{
		intent:  "thanks",
		pattern: regexp.MustCompile(`\b(merci|thanks)\b`),
		reply:   "Avec plaisir ! N'hésitez pas si vous avez d'autres questions.",
	},
	{
		intent:  "help",
		pattern: regexp.MustCompile(`\b(aide|help|assistance)\b|que (peux|sais)[- ]tu`),
		reply: "Je peux vous renseigner sur : les factures, la TVA, le stock et les inventaires, " +
			"les immobilisations, les notes de frais, les comptes bancaires, le plan comptable SYSCOHADA, " +
			"l'audit et le budget.",
	},
	{
		intent:  "factures",
		pattern: regexp.MustCompile(`factur`),
		reply: "Factures : créez une facture depuis le menu Ventes, ajoutez vos lignes et le taux de TVA, " +
			"puis validez-la. Une facture validée reçoit un numéro définitif et ne peut plus être modifiée.",
	},
	{
		intent:  "tva",
		pattern: regexp.MustCompile(`\btva\b|taxe sur la valeur`),
		reply: "TVA : 1) TVA collectée sur vos ventes, 2) TVA déductible sur vos achats, " +
			"3) déclaration mensuelle de la TVA due (collectée moins déductible). " +
			"Le taux normal SYSCOHADA le plus courant est de 18 %.",
	},
	{
		intent:  "stock",
		pattern: regexp.MustCompile(`stock|inventaire|produit`),
		reply: "Stock : enregistrez vos entrées et sorties depuis le module Stock. " +
			"Une sortie supérieure au stock disponible est refusée. " +
			"Pour un inventaire physique, saisissez les quantités comptées puis clôturez : les écarts sont ajustés automatiquement.",
	},
	{
		intent:  "immobilisations",
		pattern: regexp.MustCompile(`immobilis|amortissement`),
		reply:   "Immobilisations : enregistrez le bien avec sa date d'acquisition, sa valeur et sa durée d'utilité. Les dotations aux amortissements sont calculées par exercice.",
	},
	{
		intent:  "notes_de_frais",
		pattern: regexp.MustCompile(`notes? de frais|\bfrais\b`),
		reply:   "Notes de frais : saisissez chaque dépense avec son justificatif. Une fois approuvée, la note est comptabilisée en charge.",
	},
	{
		intent:  "comptes_bancaires",
		pattern: regexp.MustCompile(`banque|bancaire|rapprochement|relev[ée]`),
		reply:   "Comptes bancaires : ajoutez vos comptes puis rapprochez vos relevés avec les écritures de trésorerie pour repérer les écarts.",
	},
	{
		intent:  "plan_comptable",
		pattern: regexp.MustCompile(`plan comptable|syscohada|\bcompte \d`),
		reply:   "Plan comptable SYSCOHADA : classes 1 à 5 pour le bilan, 6 pour les charges, 7 pour les produits, 8 pour les autres charges et produits.",
	},
	{
		intent:  "audit",
		pattern: regexp.MustCompile(`audit|contr[oô]le`),
		reply:   "Audit : chaque enregistrement conserve son auteur et ses dates de création et de modification pour faciliter le contrôle.",
	},
	{
		intent:  "budget",
		pattern: regexp.MustCompile(`budget|pr[ée]vision`),
		reply:   "Budget : définissez vos recettes et dépenses prévues par année, puis consultez la comparaison avec le réel et les écarts.",
	},
}

const fallbackReply = "Je n'ai pas compris votre question. Je peux vous aider sur : factures, TVA, stock, " +
	"immobilisations, notes de frais, comptes bancaires, plan comptable, audit et budget."

type chatService struct{}

func NewChatService() ChatService {
	return &chatService{}
}

func (s *chatService) Reply(message string) *ChatReply {
	text := strings.ToLower(strings.TrimSpace(message))

	reply := &ChatReply{Reply: fallbackReply, Intent: intentFallback}
	for _, rule := range chatRules {
		if rule.pattern.MatchString(text) {
			reply = &ChatReply{Reply: rule.reply, Intent: rule.intent}
			break
		}
	}

	metrics.ChatReplies.WithLabelValues(reply.Intent).Inc()
	return reply
}
